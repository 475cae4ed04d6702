package content

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/bilgisen/feedpress/internal/models"
)

const (
	// ExpansionThreshold is the plain-text length below which an entry gets narrative padding
	ExpansionThreshold = 800
	// EnhancedReadingFloor is the minimum reading time reported for enhanced posts
	EnhancedReadingFloor = 5

	enhancedExcerptLength = 160
	keywordCount          = 5
)

// Input is the material a post is composed from
type Input struct {
	Title    string
	Body     string
	Category models.Category
	ImageURL string
}

// Result is a composed post body with its derived metadata
type Result struct {
	HTML        string
	Excerpt     string
	ReadingTime int
	ImageURL    string
	Keywords    []string
	Expanded    bool
}

// Enhancer wraps entries in structured sections and pads short ones with template content
type Enhancer struct {
	templates *CategoryTemplateRepository
	tmpl      *template.Template
}

func NewEnhancer(templates *CategoryTemplateRepository) *Enhancer {
	if templates == nil {
		templates = NewCategoryTemplateRepository()
	}
	return &Enhancer{
		templates: templates,
		tmpl:      template.Must(template.New("enhanced").Parse(enhancedLayout)),
	}
}

type keywordCard struct {
	Word    string
	Concept string
}

type enhancedView struct {
	Title     string
	Category  models.Category
	Template  CategoryTemplate
	ImageURL  string
	Body      template.HTML
	Expanded  bool
	Keywords  []keywordCard
	Insight   string
	Quote     Quote
	Takeaways []string
}

// Compose builds the enhanced HTML for in. Bodies shorter than ExpansionThreshold get the
// narrative expansion and keyword sections before the structural wrap.
func (e *Enhancer) Compose(in Input) Result {
	tpl := e.templates.Lookup(in.Category)
	plain := StripHTML(in.Body)

	image := strings.TrimSpace(in.ImageURL)
	if image == "" {
		image = tpl.DefaultImage
	}

	view := enhancedView{
		Title:     in.Title,
		Category:  in.Category,
		Template:  tpl,
		ImageURL:  image,
		Body:      template.HTML(Paragraphs(in.Body)),
		Quote:     tpl.QuoteFor(in.Title),
		Takeaways: tpl.Concepts,
	}

	var keywords []string
	if utf8.RuneCountInString(plain) < ExpansionThreshold {
		view.Expanded = true
		keywords = Keywords(in.Title+" "+plain, keywordCount)
		view.Keywords = keywordCards(keywords, tpl.Concepts)
		view.Insight = insightParagraph(tpl, keywords)
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, view); err != nil {
		// Only reachable with a broken layout; fall back to the bare body.
		buf.Reset()
		buf.WriteString(Paragraphs(in.Body))
	}
	out := buf.String()

	return Result{
		HTML:        out,
		Excerpt:     Excerpt(plain, enhancedExcerptLength),
		ReadingTime: ReadingTime(WordCount(StripHTML(out)), EnhancedReadingFloor),
		ImageURL:    image,
		Keywords:    keywords,
		Expanded:    view.Expanded,
	}
}

func keywordCards(keywords, concepts []string) []keywordCard {
	cards := make([]keywordCard, len(keywords))
	for i, kw := range keywords {
		cards[i] = keywordCard{Word: kw}
		if len(concepts) > 0 {
			cards[i].Concept = concepts[i%len(concepts)]
		}
	}
	return cards
}

func insightParagraph(tpl CategoryTemplate, keywords []string) string {
	if len(keywords) == 0 {
		return tpl.Insight
	}
	return tpl.Insight + " Topics such as " + joinWords(keywords) + " are central to that shift."
}

func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	}
	return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
}

const enhancedLayout = `<article class="enhanced-post category-{{.Category}}">
<header class="post-header">
<p class="category-label">{{.Template.Label}}</p>
<p class="lead">{{.Template.Intro}}</p>
</header>
{{if .ImageURL}}<figure class="post-image"><img src="{{.ImageURL}}" alt="{{.Title}}"></figure>
{{end}}{{if .Expanded}}<section class="narrative-expansion">
<h2>The Challenge</h2>
<p>{{.Template.Narrative.Challenge}}</p>
<h2>The Solution</h2>
<p>{{.Template.Narrative.Solution}}</p>
<h2>Success Story</h2>
<p>{{.Template.Narrative.Success}}</p>
<h2>Looking Ahead</h2>
<p>{{.Template.Narrative.Outlook}}</p>
</section>
{{end}}<section class="post-body">
{{.Body}}
</section>
{{if .Expanded}}{{if .Keywords}}<section class="keyword-focus">
<h2>Key Topics</h2>
<div class="keyword-cards">
{{range .Keywords}}<div class="keyword-card"><h3>{{.Word}}</h3>{{if .Concept}}<p>{{.Concept}}</p>{{end}}</div>
{{end}}</div>
</section>
{{end}}<section class="industry-insight">
<h2>{{.Template.InsightTitle}}</h2>
<p>{{.Insight}}</p>
</section>
<section class="implementation-strategy">
<h2>{{.Template.StrategyTitle}}</h2>
<ol>
{{range .Template.Phases}}<li><strong>{{.Title}}</strong>: {{.Description}}</li>
{{end}}</ol>
</section>
{{end}}<section class="key-takeaways">
<h2>{{.Template.TakeawaysTitle}}</h2>
<div class="takeaway-cards">
{{range .Takeaways}}<div class="takeaway-card">{{.}}</div>
{{end}}</div>
</section>
{{if .Quote.Text}}<blockquote class="post-quote">
<p>{{.Quote.Text}}</p>
<cite>{{.Quote.Author}}</cite>
</blockquote>
{{end}}{{if .Template.Metrics}}<section class="post-metrics">
{{range .Template.Metrics}}<div class="metric"><span class="metric-value">{{.Value}}</span><span class="metric-label">{{.Label}}</span></div>
{{end}}</section>
{{end}}<section class="post-conclusion">
<h2>{{.Template.ConclusionTitle}}</h2>
<p>{{.Template.Conclusion}}</p>
</section>
</article>
`
