// Package profile holds the normalized professional profile and the
// deterministic checks run against it before any model call.
package profile

import (
	"strings"
)

// Profile is a normalized professional profile. The advisor never mutates it.
type Profile struct {
	FullName       string          `json:"full_name"`
	Headline       string          `json:"headline"`
	About          string          `json:"about"`
	Location       string          `json:"location"`
	URL            string          `json:"linkedin_url,omitempty"`
	PictureURL     string          `json:"profile_picture,omitempty"`
	Connections    int             `json:"connections,omitempty"`
	Followers      int             `json:"followers,omitempty"`
	Experience     []Position      `json:"experience"`
	Education      []Degree        `json:"education"`
	Skills         []string        `json:"skills"`
	SkillsDetailed []SkillRecord   `json:"skills_detailed"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages,omitempty"`
}

type Position struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	IsCurrent   bool     `json:"is_current"`
	Skills      []string `json:"skills"`
}

type Degree struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description,omitempty"`
}

type SkillRecord struct {
	Name               string   `json:"name"`
	EndorsementCount   int      `json:"endorsement_count"`
	RelatedExperiences []string `json:"related_experiences"`
}

type Certification struct {
	Name           string   `json:"name"`
	Issuer         string   `json:"issuer"`
	IssueDate      string   `json:"issue_date"`
	ExpirationDate string   `json:"expiration_date"`
	Skills         []string `json:"skills"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

// AllSkills returns the lower-cased union of every skill the profile mentions,
// in first-seen order: top-level skills, detailed skills, position skills,
// then certification skills.
func (p *Profile) AllSkills() []string {
	if p == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(values ...string) {
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}

	add(p.Skills...)
	for _, s := range p.SkillsDetailed {
		add(s.Name)
	}
	for _, pos := range p.Experience {
		add(pos.Skills...)
	}
	for _, c := range p.Certifications {
		add(c.Skills...)
	}

	return out
}

// SkillsProof summarizes how well the detailed skills are backed by experience.
type SkillsProof struct {
	Total     int      `json:"total"`
	Endorsed  int      `json:"endorsed"`
	Linked    int      `json:"linked"`
	Orphan    int      `json:"orphan"`
	ProofRate float64  `json:"proof_rate"`
	Proven    []string `json:"proven,omitempty"`
	Unproven  []string `json:"unproven,omitempty"`
}

// Proof computes the skills-proof signal. ProofRate is Linked/Total in [0,1].
func (p *Profile) Proof() SkillsProof {
	var proof SkillsProof
	if p == nil {
		return proof
	}

	for _, s := range p.SkillsDetailed {
		proof.Total++
		if s.EndorsementCount > 0 {
			proof.Endorsed++
		}
		if len(s.RelatedExperiences) > 0 {
			proof.Linked++
			proof.Proven = append(proof.Proven, s.Name)
		} else {
			proof.Unproven = append(proof.Unproven, s.Name)
		}
	}

	proof.Orphan = proof.Total - proof.Linked
	if proof.Total > 0 {
		proof.ProofRate = float64(proof.Linked) / float64(proof.Total)
	}

	return proof
}

// Current returns the most recent position, if any.
func (p *Profile) Current() (Position, bool) {
	if p == nil || len(p.Experience) == 0 {
		return Position{}, false
	}
	return p.Experience[0], true
}

// Companies returns up to n distinct company names in experience order.
func (p *Profile) Companies(n int) []string {
	if p == nil {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, pos := range p.Experience {
		if len(out) >= n {
			break
		}
		name := strings.TrimSpace(pos.Company)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
