package dto

// Page carries skip/limit pagination parameters.
type Page struct {
	Skip  int `query:"skip"`
	Limit int `query:"limit"`
}

// Normalized clamps skip to >= 0 and limit to [1,100], defaulting to 20.
func (p Page) Normalized() (skip, limit int) {
	skip = p.Skip
	if skip < 0 {
		skip = 0
	}
	limit = p.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return skip, limit
}
