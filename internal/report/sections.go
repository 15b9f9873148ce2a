package report

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// SectionSpec defines one report section: its name and the prompt template
// sent to the agent. Templates may reference {{.SubjectID}}, {{.PeriodStart}}
// and {{.PeriodEnd}}.
type SectionSpec struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

// promptData is the template context for section prompts.
type promptData struct {
	SubjectID   string
	PeriodStart string
	PeriodEnd   string
}

// Render substitutes the subject id and period into the prompt template.
func (s SectionSpec) Render(subjectID string, periodStart, periodEnd time.Time) (string, error) {
	tmpl, err := template.New(s.Name).Parse(s.Prompt)
	if err != nil {
		return "", fmt.Errorf("section %q: parsing prompt template: %w", s.Name, err)
	}

	data := promptData{
		SubjectID:   subjectID,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("section %q: rendering prompt: %w", s.Name, err)
	}
	return sb.String(), nil
}

// LoadSections reads an ordered section list from a YAML file.
func LoadSections(path string) ([]SectionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var specs []SectionSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing sections file %s: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("sections file %s defines no sections", path)
	}
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("sections file %s: section %d has no name", path, i+1)
		}
		if s.Prompt == "" {
			return nil, fmt.Errorf("sections file %s: section %q has no prompt", path, s.Name)
		}
	}
	return specs, nil
}

// DefaultSections returns the standard three-section executive review, in
// generation order. Each section's prompt builds on the conversational
// context established by the ones before it.
func DefaultSections() []SectionSpec {
	return []SectionSpec{
		{
			Name: "performance",
			Prompt: `Analyze performance vs industry benchmarks for customer {{.SubjectID}}
for the period {{.PeriodStart}} to {{.PeriodEnd}}.

Include:
1. Key conversion metrics (total revenue, conversion count, average value)
2. Engagement metrics (open rates, click-through rates, engagement scores)
3. Comparison to industry benchmarks where available
4. Year-over-year comparison if sufficient historical data exists

Keep it concise and highlight the most important metrics.`,
		},
		{
			Name: "business_value",
			Prompt: `Provide a business value analysis for customer {{.SubjectID}}.

Focus on:
1. Revenue trends and growth indicators
2. Customer engagement health
3. Channel effectiveness (which channels are driving the most value)
4. Attribution insights (which touchpoints contribute most to conversions)

Translate metrics into business impact statements.`,
		},
		{
			Name: "recommendations",
			Prompt: `Based on the data for customer {{.SubjectID}} and relevant case studies from
the Media & Entertainment industry, provide 3-5 actionable recommendations.

For each recommendation:
1. State the recommendation clearly
2. Reference supporting data or case study examples
3. Explain the expected impact

Focus on: channel optimization, engagement strategies, and churn prevention.`,
		},
	}
}
