package models

// Organization employs or sponsors healthcare workers.
type Organization struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name" validate:"required,max=200"`
	ContactEmail *string `db:"contact_email" json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `db:"contact_phone" json:"contact_phone,omitempty" validate:"omitempty,max=50"`
}

// OrganizationFilter captures list options for organizations.
type OrganizationFilter struct {
	Search string
	Paging
}
