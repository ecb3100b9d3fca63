package models

import (
	"strings"
	"time"

	"github.com/theleywin/Backend-Dissuade/src/collection"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Profile struct {
	Id             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	Handle         string             `json:"handle" bson:"handle"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Status         string             `json:"status" bson:"status"`
	Skills         []string           `json:"skills" bson:"skills"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	GithubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Social         Social             `json:"social" bson:"social"`
	Experience     []Experience       `json:"experience" bson:"experience"`
	Education      []Education        `json:"education" bson:"education"`
	Date           time.Time          `json:"date" bson:"date"`
	Rev            int64              `json:"rev" bson:"rev"`
}

type Social struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

type Experience struct {
	Id          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company" bson:"company"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time          `json:"from" bson:"from"`
	To          *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool               `json:"current" bson:"current"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	Id           primitive.ObjectID `json:"_id" bson:"_id"`
	School       string             `json:"school" bson:"school"`
	Degree       string             `json:"degree" bson:"degree"`
	FieldOfStudy string             `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time          `json:"from" bson:"from"`
	To           *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool               `json:"current" bson:"current"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
}

// ProfileDto is a profile with its owner populated.
type ProfileDto struct {
	Profile
	User UserDto `json:"user"`
}

var experiences = collection.Policy[Experience, primitive.ObjectID]{
	Key:     func(e Experience) primitive.ObjectID { return e.Id },
	NewKey:  primitive.NewObjectID,
	SetKey:  func(e *Experience, id primitive.ObjectID) { e.Id = id },
	Missing: ErrEntryNotFound,
}

var educations = collection.Policy[Education, primitive.ObjectID]{
	Key:     func(e Education) primitive.ObjectID { return e.Id },
	NewKey:  primitive.NewObjectID,
	SetKey:  func(e *Education, id primitive.ObjectID) { e.Id = id },
	Missing: ErrEntryNotFound,
}

// profileField binds one optional input field to the profile attribute it sets.
// Empty values are skipped so an edit keeps what was stored before.
type profileField struct {
	name string
	set  func(p *Profile, v string)
}

var profileFields = []profileField{
	{"handle", func(p *Profile, v string) { p.Handle = v }},
	{"company", func(p *Profile, v string) { p.Company = v }},
	{"website", func(p *Profile, v string) { p.Website = v }},
	{"location", func(p *Profile, v string) { p.Location = v }},
	{"bio", func(p *Profile, v string) { p.Bio = v }},
	{"status", func(p *Profile, v string) { p.Status = v }},
	{"githubusername", func(p *Profile, v string) { p.GithubUsername = v }},
}

var socialFields = []struct {
	name string
	set  func(s *Social, v string)
}{
	{"youtube", func(s *Social, v string) { s.YouTube = v }},
	{"twitter", func(s *Social, v string) { s.Twitter = v }},
	{"facebook", func(s *Social, v string) { s.Facebook = v }},
	{"linkedin", func(s *Social, v string) { s.LinkedIn = v }},
	{"instagram", func(s *Social, v string) { s.Instagram = v }},
}

func NewProfile(user primitive.ObjectID) Profile {
	return Profile{
		User:       user,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		Date:       time.Now().UTC(),
	}
}

// Apply copies the submitted fields onto p, trimmed. Skills are replaced whenever the
// field is present; social links are rebuilt from scratch on every call.
func (p *Profile) Apply(fields map[string]string) {
	for _, f := range profileFields {
		if v := strings.TrimSpace(fields[f.name]); v != "" {
			f.set(p, v)
		}
	}

	if raw, ok := fields["skills"]; ok {
		p.Skills = splitSkills(raw)
	}

	var social Social
	for _, f := range socialFields {
		if v := strings.TrimSpace(fields[f.name]); v != "" {
			f.set(&social, v)
		}
	}
	p.Social = social
}

func splitSkills(raw string) []string {
	skills := []string{}
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// Normalize replaces nil collections with empty ones so they encode as [].
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}

func (p *Profile) AddExperience(e Experience) (Experience, error) {
	out, stored, err := experiences.Append(p.Experience, e)
	if err != nil {
		return Experience{}, err
	}
	p.Experience = out
	return stored, nil
}

func (p *Profile) RemoveExperience(id primitive.ObjectID) error {
	out, _, err := experiences.Remove(p.Experience, id)
	if err != nil {
		return err
	}
	p.Experience = out
	return nil
}

func (p *Profile) AddEducation(e Education) (Education, error) {
	out, stored, err := educations.Append(p.Education, e)
	if err != nil {
		return Education{}, err
	}
	p.Education = out
	return stored, nil
}

func (p *Profile) RemoveEducation(id primitive.ObjectID) error {
	out, _, err := educations.Remove(p.Education, id)
	if err != nil {
		return err
	}
	p.Education = out
	return nil
}

func (p Profile) WithUser(u UserDto) ProfileDto {
	p.Normalize()
	return ProfileDto{Profile: p, User: u}
}
