// internal/model/blend.go
package model

// Blend は子音ブレンド (例: "bl", "st") ごとの練習用単語リストです。
type Blend struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Blend       string   `json:"blend,omitempty"`
	Description string   `json:"description,omitempty"`
	Img         string   `json:"img,omitempty"`
	Words       []string `json:"words"`
}

// BlendFrontMatter はブレンドファイルのフロントマターです。
type BlendFrontMatter struct {
	Title       string `yaml:"title"`
	Blend       string `yaml:"blend"`
	Description string `yaml:"description"`
	Img         string `yaml:"img"`
}
