package apify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/profile-advisor/internal/profile"
)

type rawItem struct {
	BasicInfo      rawBasicInfo       `json:"basic_info"`
	ProfileURL     string             `json:"profileUrl"`
	Experience     []rawPosition      `json:"experience"`
	Education      []rawSchool        `json:"education"`
	Skills         []interface{}      `json:"skills"`
	Certifications []rawCertification `json:"certifications"`
	Languages      []interface{}      `json:"languages"`
}

type rawBasicInfo struct {
	FullName          string      `json:"fullname"`
	Headline          string      `json:"headline"`
	About             string      `json:"about"`
	Location          interface{} `json:"location"`
	ProfileURL        string      `json:"profile_url"`
	ProfilePictureURL string      `json:"profile_picture_url"`
	ConnectionCount   int         `json:"connection_count"`
	FollowerCount     int         `json:"follower_count"`
}

type rawPosition struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Description string      `json:"description"`
	Duration    string      `json:"duration"`
	Location    string      `json:"location"`
	StartDate   interface{} `json:"start_date"`
	EndDate     interface{} `json:"end_date"`
	IsCurrent   bool        `json:"is_current"`
	Skills      []string    `json:"skills"`
}

type rawSchool struct {
	School       string      `json:"school"`
	Degree       string      `json:"degree"`
	DegreeName   string      `json:"degree_name"`
	FieldOfStudy string      `json:"field_of_study"`
	Description  string      `json:"description"`
	StartDate    interface{} `json:"start_date"`
	EndDate      interface{} `json:"end_date"`
}

type rawCertification struct {
	Name           string      `json:"name"`
	Organization   string      `json:"organization"`
	Issuer         string      `json:"issuer"`
	IssueDate      interface{} `json:"issue_date"`
	IssuedDate     interface{} `json:"issued_date"`
	ExpirationDate interface{} `json:"expiration_date"`
	Skills         []string    `json:"skills"`
}

type rawSkill struct {
	Name               string        `json:"name"`
	EndorsementCount   int           `json:"endorsement_count"`
	RelatedExperiences []interface{} `json:"related_experiences"`
}

// presentDate is stored as the end date of current positions.
const presentDate = "Present"

func normalize(raw rawItem) *profile.Profile {
	info := raw.BasicInfo

	p := &profile.Profile{
		FullName:    info.FullName,
		Headline:    info.Headline,
		About:       info.About,
		Location:    location(info.Location),
		URL:         firstNonEmpty(info.ProfileURL, raw.ProfileURL),
		PictureURL:  info.ProfilePictureURL,
		Connections: info.ConnectionCount,
		Followers:   info.FollowerCount,
		Skills:      []string{},
	}

	for _, pos := range raw.Experience {
		end := presentDate
		if !pos.IsCurrent {
			end = firstNonEmpty(formatDate(pos.EndDate), presentDate)
		}
		p.Experience = append(p.Experience, profile.Position{
			Title:       pos.Title,
			Company:     pos.Company,
			Description: pos.Description,
			Location:    pos.Location,
			Duration:    pos.Duration,
			StartDate:   formatDate(pos.StartDate),
			EndDate:     end,
			IsCurrent:   pos.IsCurrent,
			Skills:      pos.Skills,
		})
	}

	for _, school := range raw.Education {
		p.Education = append(p.Education, profile.Degree{
			School:       school.School,
			Degree:       firstNonEmpty(school.Degree, school.DegreeName),
			FieldOfStudy: school.FieldOfStudy,
			StartDate:    formatDate(school.StartDate),
			EndDate:      formatDate(school.EndDate),
			Description:  school.Description,
		})
	}

	for _, item := range raw.Skills {
		record, ok := skill(item)
		if !ok {
			continue
		}
		p.Skills = append(p.Skills, record.Name)
		p.SkillsDetailed = append(p.SkillsDetailed, record)
	}

	for _, cert := range raw.Certifications {
		issued := formatDate(cert.IssueDate)
		if issued == "" {
			issued = formatDate(cert.IssuedDate)
		}
		p.Certifications = append(p.Certifications, profile.Certification{
			Name:           cert.Name,
			Issuer:         firstNonEmpty(cert.Organization, cert.Issuer),
			IssueDate:      issued,
			ExpirationDate: formatDate(cert.ExpirationDate),
			Skills:         cert.Skills,
		})
	}

	for _, item := range raw.Languages {
		switch v := item.(type) {
		case string:
			p.Languages = append(p.Languages, profile.Language{Name: v})
		case map[string]interface{}:
			var lang profile.Language
			if err := decode(v, &lang); err == nil && lang.Name != "" {
				p.Languages = append(p.Languages, lang)
			}
		}
	}

	return p
}

func skill(item interface{}) (profile.SkillRecord, bool) {
	switch v := item.(type) {
	case string:
		name := strings.TrimSpace(v)
		return profile.SkillRecord{Name: name}, name != ""
	case map[string]interface{}:
		var raw rawSkill
		if err := decode(v, &raw); err != nil || strings.TrimSpace(raw.Name) == "" {
			return profile.SkillRecord{}, false
		}
		record := profile.SkillRecord{Name: strings.TrimSpace(raw.Name), EndorsementCount: raw.EndorsementCount}
		for _, rel := range raw.RelatedExperiences {
			if label := describe(rel); label != "" {
				record.RelatedExperiences = append(record.RelatedExperiences, label)
			}
		}
		return record, true
	default:
		return profile.SkillRecord{}, false
	}
}

// describe reduces a related-experience entry to a label.
func describe(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]interface{}:
		for _, key := range []string{"title", "name", "company"} {
			if s, ok := t[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func location(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		for _, key := range []string{"full", "city"} {
			if s, ok := t[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// formatDate renders actor date values as "Mon YYYY", "YYYY" or the raw string.
func formatDate(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.Itoa(int(t))
	case map[string]interface{}:
		year := scalar(t["year"])
		if year == "" {
			return ""
		}
		month := monthName(scalar(t["month"]))
		if month == "" {
			return year
		}
		return month + " " + year
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(int(t))
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// monthName maps 1-12 to "Jan".."Dec" and keeps named months as three-letter abbreviations.
func monthName(month string) string {
	if month == "" {
		return ""
	}
	if n, err := strconv.Atoi(month); err == nil {
		if n < 1 || n > 12 {
			return ""
		}
		return time.Month(n).String()[:3]
	}
	if len(month) > 3 {
		month = month[:3]
	}
	return strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
