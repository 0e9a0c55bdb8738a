// internal/model/story.go
package model

// StoryFrontMatter はストーリーファイルのフロントマターです。
// 必須は id, title, img。その他のキーは Extra に残ります。
type StoryFrontMatter struct {
	ID       string         `yaml:"id" json:"id"`
	Title    string         `yaml:"title" json:"title"`
	Img      string         `yaml:"img" json:"img"`
	WordType string         `yaml:"wordType,omitempty" json:"word_type,omitempty"`
	Extra    map[string]any `yaml:",inline" json:"extra,omitempty"`
}

// Story はディスク上の1ストーリーです。Content はフロントマターを除いた Markdown 本文です。
type Story struct {
	StoryFrontMatter
	Slug    string
	Dir     string
	Content string
}

type StorySummary struct {
	Slug     string `json:"slug"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	WordType string `json:"word_type,omitempty"`
}

type StoryResponse struct {
	StorySummary
	Dir      string         `json:"dir,omitempty"`
	Markdown string         `json:"markdown"`
	HTML     string         `json:"html"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// UploadStoryRequest はマルチパートで受け取ったストーリー投稿です。
// json タグはバリデーションエラーのフィールド名にだけ使います (フォーム名と同じ)。
type UploadStoryRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content" validate:"required"`
	ImageName string `json:"image" validate:"required"`
}

type UploadStoryResponse struct {
	Success bool   `json:"success"`
	StoryID string `json:"storyId"`
	Message string `json:"message"`
}
