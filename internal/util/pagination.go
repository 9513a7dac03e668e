package util

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
	Offset int `json:"-"`
}

// Paginate normalises 1-based page/size query values.
func Paginate(page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: page, Size: size, Offset: (page - 1) * size}
}
