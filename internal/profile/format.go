package profile

import (
	"fmt"
	"strings"
)

// Format renders the profile as plain text for prompts.
func (p *Profile) Format() string {
	if p == nil {
		return ""
	}

	var lines []string

	if p.Headline != "" {
		lines = append(lines, "Headline: "+p.Headline)
	}

	if p.About != "" {
		lines = append(lines, "\nAbout:\n"+p.About)
	}

	if len(p.Experience) > 0 {
		lines = append(lines, "\nExperience:")
		for _, exp := range p.Experience {
			period := "Date not specified"
			if exp.StartDate != "" {
				end := exp.EndDate
				if end == "" {
					end = "Present"
				}
				period = fmt.Sprintf("%s - %s", exp.StartDate, end)
			}
			status := " (ENDED)"
			if exp.IsCurrent {
				status = " (CURRENT POSITION)"
			}

			lines = append(lines,
				fmt.Sprintf("- %s at %s", orNA(exp.Title), orNA(exp.Company)),
				fmt.Sprintf("  Period: %s%s", period, status),
			)
			if exp.Description != "" {
				lines = append(lines, "  "+exp.Description)
			}
			if exp.Duration != "" {
				lines = append(lines, "  Duration: "+exp.Duration)
			}
		}
	}

	if len(p.Education) > 0 {
		lines = append(lines, "\nEducation:")
		for _, edu := range p.Education {
			lines = append(lines, fmt.Sprintf("- %s from %s", orNA(edu.Degree), orNA(edu.School)))
			if edu.FieldOfStudy != "" && !strings.Contains(edu.Degree, edu.FieldOfStudy) {
				lines = append(lines, "  Field of Study: "+edu.FieldOfStudy)
			}
			switch {
			case edu.StartDate != "" && edu.EndDate != "":
				lines = append(lines, fmt.Sprintf("  Period: %s - %s", edu.StartDate, edu.EndDate))
			case edu.StartDate != "":
				lines = append(lines, "  Start Date: "+edu.StartDate)
			case edu.EndDate != "":
				lines = append(lines, "  Graduation Date: "+edu.EndDate)
			}
		}
	}

	if len(p.Skills) > 0 {
		lines = append(lines, "\nSkills: "+strings.Join(p.Skills, ", "))
	}

	if len(p.Certifications) > 0 {
		lines = append(lines, "\nCertifications:")
		for _, cert := range p.Certifications {
			lines = append(lines, "- "+orNA(cert.Name))
		}
	}

	return strings.Join(lines, "\n")
}

// Section returns the current text of a named profile section.
func (p *Profile) Section(name string) string {
	if p == nil {
		return ""
	}

	switch name {
	case "headline":
		return p.Headline
	case "about":
		return p.About
	case "skills":
		return strings.Join(p.Skills, ", ")
	case "experience":
		var parts []string
		for i, exp := range p.Experience {
			if i == 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s at %s\n%s", exp.Title, exp.Company, exp.Description))
		}
		return strings.Join(parts, "\n\n")
	case "education":
		var parts []string
		for _, edu := range p.Education {
			parts = append(parts, fmt.Sprintf("%s from %s", edu.Degree, edu.School))
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
