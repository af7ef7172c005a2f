package doclayout

// ElementInfo is the resolved description of a container or wrapper element
// handed to the sink when its scope begins: kind, optional ID, evaluated
// properties, and effective style.
type ElementInfo struct {
	Kind       Kind             `json:"kind"`
	ID         string           `json:"id,omitempty"`
	Properties map[string]Value `json:"properties,omitempty"`
	Style      *StyleProperties `json:"style,omitempty"`
}

// TextInstruction asks the sink to draw a run of text.
type TextInstruction struct {
	Content string           `json:"content"`
	Style   *StyleProperties `json:"style,omitempty"`
}

// ImageInstruction asks the sink to place an image. Data is nil when the
// image was not loaded in-process; the sink then resolves Source itself.
type ImageInstruction struct {
	Source string  `json:"source,omitempty"`
	Data   []byte  `json:"-"`
	Format string  `json:"format,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// LineInstruction asks the sink to draw a rule.
type LineInstruction struct {
	Orientation string  `json:"orientation"`
	Thickness   float64 `json:"thickness"`
	Color       string  `json:"color,omitempty"`
}

// Sink is the document-building collaborator. Renderers hand it declarative
// drawing instructions; the actual pagination and byte emission happen
// behind this interface. Page is read back during rendering so expressions
// can observe the current page counters.
type Sink interface {
	BeginElement(el ElementInfo) error
	EndElement(kind Kind) error
	DrawText(t TextInstruction) error
	DrawImage(img ImageInstruction) error
	DrawLine(l LineInstruction) error
	Space(height float64) error
	PageBreak() error
	Page() PageInfo
}

// Instruction is one recorded sink call.
type Instruction struct {
	Op         string           `json:"op"` // begin, end, text, image, line, space, pageBreak
	Depth      int              `json:"depth"`
	Kind       Kind             `json:"kind,omitempty"`
	ID         string           `json:"id,omitempty"`
	Properties map[string]Value `json:"properties,omitempty"`
	Style      *StyleProperties `json:"style,omitempty"`
	Content    string           `json:"content,omitempty"`
	Source     string           `json:"source,omitempty"`
	Format     string           `json:"format,omitempty"`
	ByteSize   int              `json:"byteSize,omitempty"`
	Width      float64          `json:"width,omitempty"`
	Height     float64          `json:"height,omitempty"`
	Thickness  float64          `json:"thickness,omitempty"`
	Color      string           `json:"color,omitempty"`
}

// Recorder is a Sink that records the instruction stream instead of
// building a document. It backs the package tests and the MCP render tool.
type Recorder struct {
	page  PageInfo
	depth int
	recs  []Instruction
}

// NewRecorder returns a Recorder with A4 page geometry in points.
func NewRecorder() *Recorder {
	return &Recorder{
		page: PageInfo{Width: 595, Height: 842, CurrentPage: 1, TotalPages: 1},
	}
}

// Instructions returns the recorded stream in emission order.
func (r *Recorder) Instructions() []Instruction { return r.recs }

// SetPage overrides the page info reported to expressions.
func (r *Recorder) SetPage(p PageInfo) { r.page = p }

// BeginElement implements Sink.
func (r *Recorder) BeginElement(el ElementInfo) error {
	r.recs = append(r.recs, Instruction{
		Op:         "begin",
		Depth:      r.depth,
		Kind:       el.Kind,
		ID:         el.ID,
		Properties: el.Properties,
		Style:      el.Style,
	})
	r.depth++
	return nil
}

// EndElement implements Sink.
func (r *Recorder) EndElement(kind Kind) error {
	r.depth--
	r.recs = append(r.recs, Instruction{Op: "end", Depth: r.depth, Kind: kind})
	return nil
}

// DrawText implements Sink.
func (r *Recorder) DrawText(t TextInstruction) error {
	r.recs = append(r.recs, Instruction{Op: "text", Depth: r.depth, Content: t.Content, Style: t.Style})
	return nil
}

// DrawImage implements Sink.
func (r *Recorder) DrawImage(img ImageInstruction) error {
	r.recs = append(r.recs, Instruction{
		Op:       "image",
		Depth:    r.depth,
		Source:   img.Source,
		Format:   img.Format,
		ByteSize: len(img.Data),
		Width:    img.Width,
		Height:   img.Height,
	})
	return nil
}

// DrawLine implements Sink.
func (r *Recorder) DrawLine(l LineInstruction) error {
	r.recs = append(r.recs, Instruction{
		Op:        "line",
		Depth:     r.depth,
		Content:   l.Orientation,
		Thickness: l.Thickness,
		Color:     l.Color,
	})
	return nil
}

// Space implements Sink.
func (r *Recorder) Space(height float64) error {
	r.recs = append(r.recs, Instruction{Op: "space", Depth: r.depth, Height: height})
	return nil
}

// PageBreak implements Sink.
func (r *Recorder) PageBreak() error {
	r.page.CurrentPage++
	if r.page.TotalPages < r.page.CurrentPage {
		r.page.TotalPages = r.page.CurrentPage
	}
	r.recs = append(r.recs, Instruction{Op: "pageBreak", Depth: r.depth})
	return nil
}

// Page implements Sink.
func (r *Recorder) Page() PageInfo { return r.page }
