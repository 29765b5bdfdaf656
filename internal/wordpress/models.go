// Package wordpress describes the WordPress REST resources and the declarative operation schemas an external
// request builder uses to talk to them. Nothing in this package performs HTTP calls.
package wordpress

// Category is a WordPress category term.
type Category struct {
	ID          int               `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Slug        string            `json:"slug,omitempty"`
	Parent      int               `json:"parent,omitempty"`
	Count       int               `json:"count,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Tag is a WordPress tag term.
type Tag struct {
	ID          int               `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Slug        string            `json:"slug,omitempty"`
	Count       int               `json:"count,omitempty"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// Post is a WordPress post.
type Post struct {
	Date          string            `json:"date,omitempty"`
	Author        int               `json:"author,omitempty"`
	ID            int               `json:"id,omitempty"`
	Title         string            `json:"title,omitempty"`
	Content       string            `json:"content,omitempty"`
	Excerpt       string            `json:"excerpt,omitempty"`
	FeaturedMedia int               `json:"featured_media,omitempty"`
	Slug          string            `json:"slug,omitempty"`
	Password      string            `json:"password,omitempty"`
	Status        string            `json:"status,omitempty"`
	CommentStatus string            `json:"comment_status,omitempty"`
	PingStatus    string            `json:"ping_status,omitempty"`
	Format        string            `json:"format,omitempty"`
	Sticky        bool              `json:"sticky,omitempty"`
	Template      string            `json:"template,omitempty"`
	Categories    []int             `json:"categories,omitempty"`
	Tags          []int             `json:"tags,omitempty"`
	Meta          map[string]string `json:"meta,omitempty"`
}
