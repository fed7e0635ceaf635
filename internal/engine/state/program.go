package state

import "fmt"

// Program is a linked shader program with a cache of uniform locations.
type Program struct {
	name      string
	id        uint32
	dev       Device
	locations map[string]int32
}

// CompileProgram compiles and links a vertex/fragment pair on dev.
func CompileProgram(dev Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := dev.CompileProgram(name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	return &Program{
		name:      name,
		id:        id,
		dev:       dev,
		locations: make(map[string]int32),
	}, nil
}

func (p *Program) Name() string { return p.name }
func (p *Program) ID() uint32   { return p.id }

// Location returns the uniform location, or -1 if the uniform is inactive.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// Release deletes the program. The Program must not be used afterwards.
func (p *Program) Release() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
	clear(p.locations)
}
