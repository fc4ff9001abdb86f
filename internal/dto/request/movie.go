package request

type MovieRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
}

// MovieUpdateRequest only changes the fields that are present.
type MovieUpdateRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	ReleaseDate *string `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Duration    *int    `json:"duration,omitempty" validate:"omitempty,gt=0"`
}
