package webclient

import (
	"net/url"
	"slices"
	"sync"
)

var (
	_ SubmitEvent = (*Submission)(nil)
	_ FormView    = (*Form)(nil)
	_ Regions     = (*Page)(nil)
	_ Region      = (*Block)(nil)
)

// Submission is a [SubmitEvent] for hosts without a native event.
type Submission struct {
	mu        sync.Mutex
	prevented bool
}

func (s *Submission) PreventDefault() {
	s.mu.Lock()
	s.prevented = true
	s.mu.Unlock()
}

// Prevented reports whether the default action was cancelled.
func (s *Submission) Prevented() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prevented
}

// Form is an in-memory [FormView] backed by submitted values.
//
// Regions lists the validation regions the form renders; ClearErrors empties all of them.
type Form struct {
	mu      sync.Mutex
	values  url.Values
	regions []string
	errors  map[string]string
	visible bool
	focused string
	alerts  []string
}

// NewForm creates a form holding values. The top-level error region always exists.
func NewForm(values url.Values, regions ...string) *Form {
	if values == nil {
		values = url.Values{}
	}
	if !slices.Contains(regions, ErrorRegionTop) {
		regions = append([]string{ErrorRegionTop}, regions...)
	}
	return &Form{values: values, regions: regions, errors: map[string]string{}}
}

func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Get(name)
}

func (f *Form) Values() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(url.Values, len(f.values))
	for k, v := range f.values {
		out[k] = slices.Clone(v)
	}
	return out
}

func (f *Form) ClearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.regions {
		f.errors[r] = ""
	}
	f.visible = false
}

func (f *Form) ShowError(region, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors[region] = message
	f.visible = true
}

func (f *Form) Focus(field string) {
	f.mu.Lock()
	f.focused = field
	f.mu.Unlock()
}

func (f *Form) Alert(message string) {
	f.mu.Lock()
	f.alerts = append(f.alerts, message)
	f.mu.Unlock()
}

// Error returns the content of a validation region.
func (f *Form) Error(region string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[region]
}

// ErrorsVisible reports whether the validation regions are shown.
func (f *Form) ErrorsVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

// Focused returns the field that last received focus.
func (f *Form) Focused() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// Alerts returns every alert shown, oldest first.
func (f *Form) Alerts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.alerts)
}

// Block is an in-memory [Region].
type Block struct {
	mu   sync.Mutex
	html string
}

func (b *Block) SetHTML(markup string) {
	b.mu.Lock()
	b.html = markup
	b.mu.Unlock()
}

// HTML returns the current markup.
func (b *Block) HTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.html
}

// Page is a named set of blocks.
type Page struct {
	blocks map[string]*Block
}

// NewPage creates a page with an empty block for each name.
func NewPage(names ...string) *Page {
	p := &Page{blocks: make(map[string]*Block, len(names))}
	for _, n := range names {
		p.blocks[n] = &Block{}
	}
	return p
}

// Region returns the named block, or nil when the page has none.
func (p *Page) Region(name string) Region {
	if b, ok := p.blocks[name]; ok {
		return b
	}
	return nil
}

// Block returns the named block, or nil when the page has none.
func (p *Page) Block(name string) *Block {
	return p.blocks[name]
}
