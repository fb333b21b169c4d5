package dto

// ExcelTemplateForm holds the non-file fields of a template upload
type ExcelTemplateForm struct {
	Name        string  `form:"name"`
	Type        string  `form:"type"`
	GroupID     *int64  `form:"groupId"`
	Description *string `form:"description"`
}

// ImportResult summarises a spreadsheet import
type ImportResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
