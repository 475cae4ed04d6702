package content

// Formatter renders entries as plain paragraphs without any template content.
// Reading time has no floor on this path.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Compose wraps the body in paragraphs. Excerpt is left empty so the writer derives it
// from the stored content.
func (f *Formatter) Compose(in Input) Result {
	body := Paragraphs(in.Body)
	html := `<div class="post-content">` + "\n" + body + "</div>\n"

	return Result{
		HTML:        html,
		ReadingTime: ReadingTime(WordCount(StripHTML(body)), 0),
		ImageURL:    in.ImageURL,
	}
}
