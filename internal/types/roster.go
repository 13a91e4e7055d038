package types

// RosterRow is one student of a course roster. The identity fields are
// required; the rest is passthrough metadata kept in the worksheet.
type RosterRow struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Group       string `json:"group,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	Address     string `json:"address,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// RosterImport reports a roster written to the spreadsheet.
type RosterImport struct {
	Worksheet  string      `json:"worksheet"`
	Subject    string      `json:"subject"`
	Group      string      `json:"group"`
	Instructor string      `json:"instructor"`
	Students   []RosterRow `json:"students"`
	ArchiveURL string      `json:"archive_url,omitempty"`
	Committed  bool        `json:"committed"`
}
