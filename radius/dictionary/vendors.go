package dictionary

import (
	"embed"
	"io/fs"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/theaaf/radius-core/radius"
)

//go:embed vendors/*.yaml
var vendorFiles embed.FS

func loadVendors() (*Dictionary, error) {
	paths, err := fs.Glob(vendorFiles, "vendors/*.yaml")
	if err != nil {
		return nil, err
	}
	d := New()
	for _, path := range paths {
		f, err := vendorFiles.Open(path)
		if err != nil {
			return nil, err
		}
		vendor, err := LoadYAML(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "dictionary %s", path)
		}
		if err := d.merge(vendor); err != nil {
			return nil, errors.Wrapf(err, "dictionary %s", path)
		}
	}
	return d, nil
}

// merge copies every definition of other into d.
func (d *Dictionary) merge(other *Dictionary) error {
	for _, def := range other.packets {
		if err := d.AddPacket(def); err != nil {
			return err
		}
	}
	for _, def := range other.tlvs {
		if err := d.AddTlv(def); err != nil {
			return err
		}
	}
	for _, def := range other.attributes {
		if err := d.AddAttribute(def); err != nil {
			return err
		}
	}
	for t, names := range other.valueNames {
		for v, name := range names {
			if err := d.AddValue(t, name, v); err != nil {
				return err
			}
		}
	}
	// Aliases: names that share a value with an earlier name.
	for t, values := range other.values {
		for key, v := range values {
			if strings.EqualFold(other.valueNames[t][v], key) {
				continue
			}
			if err := d.AddValue(t, key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	vendorsOnce sync.Once
	vendors     *Dictionary
)

// Vendors returns the shared dictionary of bundled vendor attributes (Microsoft, WISPr).
func Vendors() *Dictionary {
	vendorsOnce.Do(func() {
		d, err := loadVendors()
		if err != nil {
			panic(err)
		}
		vendors = d
	})
	return vendors
}

// Default is the standard dictionary followed by the bundled vendors.
func Default() radius.Dictionary {
	return Compound{Standard(), Vendors()}
}
