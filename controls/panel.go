package controls

import (
	"fmt"
	"sync"

	"github.com/roman-mazur/filaments/model"
	"github.com/roman-mazur/filaments/observable"
)

var slotLabels = [2]string{"Path A", "Path B"}

// Panel lays out the global controls followed by one section per path slot
// and keeps a keyboard focus. A slot section is rebuilt whenever a different
// path is installed in that slot.
type Panel struct {
	mu     sync.Mutex
	global []Control
	paths  [2][]Control
	focus  int

	terminator observable.Terminator
}

func NewPanel(scene *model.Scene) *Panel {
	p := &Panel{global: Global(scene)}
	for i := range scene.Paths {
		typeSwitch := NewTypeSwitch(slotLabels[i], scene, i)
		p.terminator.With(observable.Attach(scene.Paths[i], func(path model.Path) observable.Terminable {
			p.setSection(i, append([]Control{typeSwitch}, ForPath(path)...))
			return observable.TerminableFunc(func() { p.setSection(i, nil) })
		}, nil))
	}
	return p
}

func (p *Panel) setSection(i int, controls []Control) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths[i] = controls
	p.clampFocus()
}

func (p *Panel) all() []Control {
	all := append([]Control(nil), p.global...)
	for _, section := range p.paths {
		all = append(all, section...)
	}
	return all
}

func (p *Panel) clampFocus() {
	n := len(p.global) + len(p.paths[0]) + len(p.paths[1])
	if p.focus >= n {
		p.focus = n - 1
	}
	if p.focus < 0 {
		p.focus = 0
	}
}

// Controls returns the controls in display order.
func (p *Panel) Controls() []Control {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.all()
}

// Focused returns the control that Adjust acts on.
func (p *Panel) Focused() Control {
	p.mu.Lock()
	defer p.mu.Unlock()
	all := p.all()
	if len(all) == 0 {
		return nil
	}
	return all[p.focus]
}

func (p *Panel) Next() { p.move(1) }
func (p *Panel) Prev() { p.move(-1) }

func (p *Panel) move(d int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.all())
	if n == 0 {
		return
	}
	p.focus = ((p.focus+d)%n + n) % n
}

// Adjust steps the focused control. The panel lock is not held while the
// value changes, since a type switch rebuilds a section from its observer.
func (p *Panel) Adjust(steps int) {
	if c := p.Focused(); c != nil {
		c.Adjust(steps)
	}
}

// Lines renders the panel as text, one control per line, with section
// headers and a marker on the focused control.
func (p *Panel) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lines []string
	index := 0
	section := func(title string, controls []Control) {
		lines = append(lines, "["+title+"]")
		for _, c := range controls {
			marker := "  "
			if index == p.focus {
				marker = "> "
			}
			lines = append(lines, fmt.Sprintf("%s%-11s %s", marker, c.Label(), c.Text()))
			index++
		}
	}
	section("Global", p.global)
	for i, controls := range p.paths {
		section(slotLabels[i], controls)
	}
	return lines
}

// Close detaches the panel from the scene.
func (p *Panel) Close() {
	p.terminator.Terminate()
}
