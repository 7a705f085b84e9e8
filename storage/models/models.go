package models

import (
	"time"
)

// DateLayout is the only accepted shape of Post.Date.
const DateLayout = "2006-01-02"

type Post struct {
	Id      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// ParseDate parses a YYYY-MM-DD date. Month and day must be zero padded and
// form a real calendar day.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

func ValidDate(date string) bool {
	_, err := ParseDate(date)
	return err == nil
}

// NextId returns the id the next created post receives.
func NextId(posts []Post) int {
	maxId := 0
	for _, p := range posts {
		if p.Id > maxId {
			maxId = p.Id
		}
	}
	return maxId + 1
}

// IndexOf returns the position of the post with the given id, or -1.
func IndexOf(posts []Post, id int) int {
	for i, p := range posts {
		if p.Id == id {
			return i
		}
	}
	return -1
}
