// Package domain binds a mesh to the fields stored on it.
package domain

import (
	"github.com/notargets/gofv/mesh"
	"github.com/notargets/gofv/types"
)

type Region struct {
	Name string
}

var EntireDomain = Region{Name: mesh.EntireDomain}

type Domain struct {
	Name   string
	Mesh   mesh.Mesh
	Fields *Registry
	Data   *Storage
}

func NewDomain(name string, m mesh.Mesh, descs ...FieldDescription) (d *Domain, err error) {
	if m == nil {
		err = types.NewConfigurationError("domain %q: no mesh", name)
		return
	}
	d = &Domain{
		Name:   name,
		Mesh:   m,
		Fields: NewRegistry(),
	}
	if err = d.Fields.Register(descs...); err != nil {
		return nil, err
	}
	d.Data = NewStorage(d.Fields, m.NumCells())
	return
}

func (d *Domain) RegionCells(r Region) ([]int, error) {
	return d.Mesh.RegionCells(r.Name)
}
