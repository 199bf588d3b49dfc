package jobs

import (
	"fmt"
	"strings"
)

type defaultEntry struct {
	key string
	jd  JobDescription
}

// defaults is ordered: substring lookups return the first hit.
var defaults = []defaultEntry{
	{key: "data_analyst", jd: JobDescription{
		Title: "Data Analyst",
		Description: `We are seeking a Data Analyst to collect, process and run statistical analyses on large datasets.

Key Responsibilities:
- Collect and interpret data from various sources
- Analyze results using statistical techniques
- Develop and maintain databases and data collection systems
- Identify trends and patterns in complex data sets
- Build visualizations and reports for stakeholders
- Work with management to prioritize business and information needs

Required Skills:
- SQL and database management
- Python or R for data analysis
- Data visualization tools (Tableau, Power BI)
- Advanced Excel
- Statistical analysis and modeling
- Strong analytical and problem-solving skills

Preferred Qualifications:
- Bachelor's degree in Computer Science, Statistics or a related field
- 2+ years of experience in data analysis
- Machine learning experience is a plus`,
		Skills: []string{"SQL", "Python", "R", "Tableau", "Power BI", "Excel", "Statistics", "Data Visualization", "ETL", "Data Modeling"},
	}},
	{key: "software_engineer", jd: JobDescription{
		Title: "Software Engineer",
		Description: `We are looking for a Software Engineer to build and ship functional software solutions.

Key Responsibilities:
- Design, develop and implement software applications
- Write clean, scalable code
- Test and deploy applications and systems
- Refactor and debug existing code
- Collaborate with internal teams on system requirements
- Write technical documentation

Required Skills:
- Proficiency in Java, Python, C++ or similar languages
- Web frameworks (Django, React, Angular)
- Databases (SQL, NoSQL)
- Version control (Git)
- Problem-solving aptitude
- Clear communication

Preferred Qualifications:
- BS/MS degree in Computer Science or Engineering
- 3+ years of software development experience
- Cloud platform experience (AWS, Azure, GCP)`,
		Skills: []string{"Java", "Python", "C++", "JavaScript", "React", "Django", "SQL", "Git", "AWS", "REST APIs", "Docker", "Agile"},
	}},
	{key: "product_manager", jd: JobDescription{
		Title: "Product Manager",
		Description: `We are seeking a Product Manager to lead products from conception to launch.

Key Responsibilities:
- Define product vision and strategy
- Gather and prioritize product requirements
- Work closely with engineering, sales and marketing
- Own the product roadmap
- Analyze market trends and competitors
- Define and track key product metrics

Required Skills:
- Product management experience
- Strong analytical and problem-solving skills
- Communication and leadership
- Agile methodologies
- Data-driven decision making
- Stakeholder management

Preferred Qualifications:
- Bachelor's degree in Business, Engineering or a related field
- 4+ years of product management experience
- Technical background is a plus`,
		Skills: []string{"Product Strategy", "Roadmap Planning", "Agile", "Scrum", "User Research", "Analytics", "A/B Testing", "Stakeholder Management", "JIRA", "SQL", "Data Analysis"},
	}},
	{key: "data_scientist", jd: JobDescription{
		Title: "Data Scientist",
		Description: `We are looking for a Data Scientist to find patterns in large amounts of raw data.

Key Responsibilities:
- Identify valuable data sources and automate collection
- Preprocess structured and unstructured data
- Build predictive models and machine learning algorithms
- Present findings with data visualization
- Propose solutions to business challenges

Required Skills:
- Python, R, SQL
- Machine Learning and Deep Learning
- Statistical analysis and modeling
- Big Data platforms (Hadoop, Spark)
- Data visualization (Matplotlib, Seaborn, Tableau)
- Strong mathematical skills

Preferred Qualifications:
- Advanced degree in Statistics, Mathematics or Computer Science
- 3+ years of experience in data science
- Experience with cloud platforms`,
		Skills: []string{"Python", "R", "SQL", "Machine Learning", "Deep Learning", "TensorFlow", "PyTorch", "Scikit-learn", "Spark", "Hadoop", "Statistics", "Data Mining", "NLP"},
	}},
	{key: "marketing_manager", jd: JobDescription{
		Title: "Marketing Manager",
		Description: `We are seeking a Marketing Manager to develop and execute marketing strategies.

Key Responsibilities:
- Develop marketing strategies and campaigns
- Manage the marketing budget and ROI
- Oversee social media and content marketing
- Analyze campaign performance and metrics
- Collaborate with sales and product teams
- Manage the marketing team and external agencies

Required Skills:
- Digital marketing
- SEO/SEM and Google Analytics
- Social media marketing
- Content marketing
- Marketing automation tools
- Strong analytical skills

Preferred Qualifications:
- Bachelor's degree in Marketing or Business
- 5+ years of marketing experience
- Experience with CRM systems`,
		Skills: []string{"Digital Marketing", "SEO", "SEM", "Google Analytics", "Social Media Marketing", "Content Strategy", "Email Marketing", "Marketing Automation", "HubSpot", "Brand Management"},
	}},
}

// NormalizeTitle turns a job title into a table key.
func NormalizeTitle(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "_")
}

// Lookup returns a copy of the built-in description for title. An exact key
// match wins; otherwise the first key that contains, or is contained in,
// the normalized title.
func Lookup(title string) (*JobDescription, bool) {
	key := NormalizeTitle(title)
	if key == "" {
		return nil, false
	}

	for _, entry := range defaults {
		if entry.key == key {
			return entry.copy(), true
		}
	}
	for _, entry := range defaults {
		if strings.Contains(key, entry.key) || strings.Contains(entry.key, key) {
			return entry.copy(), true
		}
	}

	return nil, false
}

// Roles lists the keys of the built-in table.
func Roles() []string {
	out := make([]string, 0, len(defaults))
	for _, entry := range defaults {
		out = append(out, entry.key)
	}
	return out
}

func (e defaultEntry) copy() *JobDescription {
	jd := e.jd
	jd.Skills = append([]string(nil), e.jd.Skills...)
	jd.Source = SourceDefault
	return &jd
}

// Generic builds a placeholder description for roles the table does not know.
func Generic(title string) *JobDescription {
	return &JobDescription{
		Title: title,
		Description: fmt.Sprintf(`Job Title: %[1]s

We are seeking a qualified %[1]s to join our team.

This is a generic job description. For a more accurate analysis provide
the actual job posting text.

Common responsibilities for this role include:
- Contributing to team objectives and deliverables
- Collaborating with cross-functional teams
- Following industry trends and best practices
- Continuous learning and professional development`, title),
		Skills: []string{},
		Source: SourceGeneric,
	}
}
