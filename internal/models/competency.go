package models

// Competency is a named skill a worker can be trained in.
type Competency struct {
	ID          string `db:"id" json:"id"`
	Code        string `db:"code" json:"code" validate:"required,max=50"`
	Name        string `db:"name" json:"name" validate:"required,max=200"`
	Description string `db:"description" json:"description"`
}

// CompetencyFilter captures list options for competencies.
type CompetencyFilter struct {
	Search string
	Paging
}
