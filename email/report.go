package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/pevans/forumscout/classify"
	"github.com/pevans/forumscout/forum"
)

const contentPreviewChars = 300

// reportQuestion is one question prepared for the template.
type reportQuestion struct {
	forum.QuestionRecord
	Preview  string
	Category string
}

type reportData struct {
	Generated string
	Since     string
	Count     int
	Questions []reportQuestion
}

var reportTemplate = template.Must(template.New("report").Parse(`<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 800px; margin: 0 auto; padding: 20px; }
  h1 { color: #1473E6; }
  h2 { color: #505050; border-bottom: 1px solid #ddd; padding-bottom: 5px; }
  .question { margin-bottom: 20px; padding: 15px; border: 1px solid #eee; border-radius: 5px; }
  .question h3 { margin-top: 0; margin-bottom: 10px; }
  .question-link { color: #1473E6; text-decoration: none; }
  .meta { color: #777; font-size: 0.9em; margin-bottom: 10px; }
  .topic { display: inline-block; background: #F5F5F5; padding: 3px 8px; margin-right: 5px; border-radius: 3px; font-size: 0.8em; color: #555; }
  .category { display: inline-block; background: #E8F0FE; padding: 3px 8px; border-radius: 3px; font-size: 0.8em; color: #1473E6; }
  .stats { color: #777; font-size: 0.9em; margin-top: 10px; }
  .summary { background: #f9f9f9; padding: 10px; border-radius: 5px; margin-bottom: 20px; }
  .footer { margin-top: 30px; padding-top: 10px; border-top: 1px solid #ddd; font-size: 0.8em; color: #777; }
</style>
</head>
<body>
<div class="container">
  <h1>Unanswered Questions Report</h1>
  <p>Report generated on: {{.Generated}}</p>
  <div class="summary">
    <h2>Summary</h2>
    <p>Found {{.Count}} unanswered questions since {{.Since}}</p>
  </div>
{{if .Questions}}
  <h2>Questions</h2>
{{range .Questions}}
  <div class="question">
    <h3><a class="question-link" href="{{.URL}}">{{.Title}}</a></h3>
    <div class="meta">Posted by: {{.Author}} | Date: {{.Date}}</div>
    <div>{{.Preview}}</div>
{{if .Category}}    <div><span class="category">{{.Category}}</span></div>
{{end}}{{if .Topics}}    <div>{{range .Topics}}<span class="topic">{{.}}</span>{{end}}</div>
{{end}}    <div class="stats">Views: {{.Views}} | Likes: {{.Likes}} | Replies: {{.Replies}}</div>
  </div>
{{end}}
{{else}}
  <p>No unanswered questions found in the specified time period.</p>
{{end}}
  <div class="footer">
    <p>This is an automated report from the forum scout.</p>
  </div>
</div>
</body>
</html>
`))

// RenderReport produces the HTML report body for a question batch.
// Classifications may be nil; when present they are matched by question ID
// and shown as a category badge.
func RenderReport(questions []forum.QuestionRecord, classifications map[string]classify.Result, since string) (string, error) {
	if since == "" {
		since = "unknown date"
	}

	data := reportData{
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Since:     since,
		Count:     len(questions),
	}
	for _, q := range questions {
		rq := reportQuestion{QuestionRecord: q, Preview: preview(q.Content)}
		if result, ok := classifications[q.ID]; ok {
			rq.Category = fmt.Sprintf("%s (%d%%)", result.Category, result.Confidence)
		}
		data.Questions = append(data.Questions, rq)
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to execute report template: %w", err)
	}
	return b.String(), nil
}

func preview(content string) string {
	if len(content) > contentPreviewChars {
		return content[:contentPreviewChars] + "..."
	}
	return content
}
