package report

import (
	"fmt"
	"strings"
	"time"
)

const bannerLine = "================================================================================"

// sectionHeadings maps the standard section names to their report headings.
// Sections without a mapping fall back to an upper-cased name.
var sectionHeadings = map[string]string{
	"performance":     "PERFORMANCE VS BENCHMARKS",
	"business_value":  "BUSINESS VALUE ANALYSIS",
	"recommendations": "RECOMMENDATIONS & BEST PRACTICES",
}

// Format assembles the generated sections into the full plain-text report,
// with numbered headings in section order. Missing sections render as empty
// bodies under their headings rather than being dropped.
func Format(subjectID, ownerName string, periodStart, periodEnd time.Time, specs []SectionSpec, sections Sections) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(bannerLine + "\n")
	sb.WriteString("WEEKLY EXECUTIVE REVIEW REPORT\n")
	sb.WriteString(bannerLine + "\n\n")
	fmt.Fprintf(&sb, "Customer ID: %s\n", subjectID)
	fmt.Fprintf(&sb, "Account Owner: %s\n", ownerName)
	fmt.Fprintf(&sb, "Report Period: %s - %s\n",
		periodStart.Format("January 02, 2006"),
		periodEnd.Format("January 02, 2006"))
	fmt.Fprintf(&sb, "Generated: %s\n", time.Now().Format("January 02, 2006 at 3:04 PM"))

	for i, spec := range specs {
		heading, ok := sectionHeadings[spec.Name]
		if !ok {
			heading = strings.ToUpper(spec.Name)
		}
		sb.WriteString("\n" + bannerLine + "\n")
		fmt.Fprintf(&sb, "%d. %s\n", i+1, heading)
		sb.WriteString(bannerLine + "\n\n")
		sb.WriteString(sections[spec.Name])
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + bannerLine + "\n")
	sb.WriteString("END OF REPORT\n")
	sb.WriteString(bannerLine + "\n")

	return sb.String()
}
