package validate

import (
	"fmt"
	"strings"

	"partyrecords/internal/config"
	"partyrecords/internal/parser"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeRecodedInput    = "recoded_input"
	codeNoSections      = "no_sections"
	codeMissingIdentity = "missing_identity"
	codeEmptyExport     = "empty_export"
	codeDuplicatePlayer = "duplicate_player"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Player   string
	FilePath string
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run inspects exports before a build. A nil lookup skips the identity check.
func Run(catalog *config.Catalog, exports []*parser.Export, lookup map[string]string) (*Report, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	issues := make([]Issue, 0)
	seen := make(map[string]string, len(exports))
	for _, export := range exports {
		if first, ok := seen[export.Player]; ok {
			issues = append(issues, issueFor(export, SeverityError, codeDuplicatePlayer,
				fmt.Sprintf("player also exported in %s", first)))
			continue
		}
		seen[export.Player] = export.SourceFile

		if strings.TrimSpace(export.Text) == "" {
			issues = append(issues, issueFor(export, SeverityError, codeEmptyExport, "export has no content"))
			continue
		}
		if export.Recoded {
			issues = append(issues, issueFor(export, SeverityWarn, codeRecodedInput, "export is not UTF-8, decoded as Windows-1252"))
		}
		if countSections(catalog, export.Text) == 0 {
			issues = append(issues, issueFor(export, SeverityWarn, codeNoSections, "export contains no known minigame"))
		}
		if lookup != nil {
			if _, ok := lookup[export.Player]; !ok {
				issues = append(issues, issueFor(export, SeverityWarn, codeMissingIdentity, "player has no uuid in the lookup file"))
			}
		}
	}

	return &Report{Issues: issues}, nil
}

func countSections(catalog *config.Catalog, text string) int {
	count := 0
	for _, game := range catalog.Minigames {
		if _, ok := parser.Section(text, game.Name); ok {
			count++
		}
	}
	return count
}

func issueFor(export *parser.Export, severity Severity, code, message string) Issue {
	return Issue{
		Severity: severity,
		Code:     code,
		Message:  message,
		Player:   export.Player,
		FilePath: export.SourceFile,
	}
}
