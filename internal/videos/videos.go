// Package videos holds a small catalog of videos and their comments.
package videos

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/JuniperPractice/core/errors"
)

//go:embed catalog.yaml
var sampleCatalog []byte

// Comment is one viewer comment.
type Comment struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

// Video is a video with its comments. Length is in seconds.
type Video struct {
	Title    string    `yaml:"title"`
	Author   string    `yaml:"author"`
	Length   int       `yaml:"length"`
	Comments []Comment `yaml:"comments"`
}

// AddComment appends a comment.
func (v *Video) AddComment(c Comment) {
	v.Comments = append(v.Comments, c)
}

// NumComments returns the number of comments.
func (v *Video) NumComments() int {
	return len(v.Comments)
}

// Display writes the video, its comments and a separating blank line.
func (v *Video) Display(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Title: %s\n", v.Title)
	fmt.Fprintf(bw, "Author: %s\n", v.Author)
	fmt.Fprintf(bw, "Length: %d seconds\n", v.Length)
	fmt.Fprintf(bw, "Number of Comments: %d\n", v.NumComments())
	fmt.Fprintln(bw, "Comments:")
	for _, c := range v.Comments {
		fmt.Fprintf(bw, "Comment by %s: %s\n", c.Name, c.Text)
	}
	fmt.Fprintln(bw)
	return bw.Flush()
}

// Catalog is an ordered list of videos.
type Catalog struct {
	Videos []Video `yaml:"videos"`
}

// Sample returns the built-in catalog.
func Sample() *Catalog {
	c, err := Parse(sampleCatalog)
	if err != nil {
		panic(fmt.Sprintf("videos: sample catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	for i, v := range c.Videos {
		if v.Title == "" {
			return nil, errors.NewValidation(fmt.Sprintf("videos[%d].title", i), "must not be empty")
		}
		if v.Length < 0 {
			return nil, errors.NewValidation(fmt.Sprintf("videos[%d].length", i), "must not be negative")
		}
	}
	return &c, nil
}

// Load reads the catalog at path. An empty path selects the sample catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Sample(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("video catalog", path)
		}
		return nil, errors.NewIO("read", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, &errors.ParseError{Format: "yaml", Path: path, Message: err.Error(), Err: err}
	}
	return c, nil
}

// Display writes every video in order.
func (c *Catalog) Display(w io.Writer) error {
	for i := range c.Videos {
		if err := c.Videos[i].Display(w); err != nil {
			return err
		}
	}
	return nil
}
