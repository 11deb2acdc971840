package schema

// Issues returns the built-in schema for the Groundwork issue record type.
// Columns follow the issues table; status and priority use the fixed
// category/priority value sets. Issue types are project-customizable, so
// type is a plain string rather than an enum; project matches by id.
func Issues() *Schema {
	return MustNew(
		Field{Name: "key", Type: TypeString},
		Field{Name: "title", Type: TypeString},
		Field{Name: "description", Type: TypeString},
		Field{Name: "type", Type: TypeString},
		Field{Name: "project", Type: TypeString, Column: "project_id"},
		Field{Name: "status", Type: TypeEnum, EnumValues: []string{"todo", "in_progress", "done"}},
		Field{Name: "priority", Type: TypeEnum, EnumValues: []string{"critical", "high", "medium", "low", "none"}},
		Field{Name: "assignee", Type: TypeUser, Column: "assignee_id"},
		Field{Name: "reporter", Type: TypeUser, Column: "reporter_id"},
		Field{Name: "issueNumber", Type: TypeNumber, Column: "issue_number"},
		Field{Name: "createdDate", Type: TypeDate, Column: "created_at"},
		Field{Name: "updatedDate", Type: TypeDate, Column: "updated_at"},
	)
}
