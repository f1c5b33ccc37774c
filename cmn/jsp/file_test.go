package jsp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn/jsp"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.snfr")
	in := payload{Name: "resource", Count: 3}
	tassert.CheckFatal(t, jsp.Save(path, &in))

	var out payload
	tassert.CheckFatal(t, jsp.Load(path, &out))
	tassert.Errorf(t, out == in, "expected round-tripped value %+v, got %+v", in, out)
}

func TestLoadRejectsUnframedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	tassert.CheckFatal(t, os.WriteFile(path, []byte(`{"name":"x","count":1}`), 0o644))

	var out payload
	err := jsp.Load(path, &out)
	tassert.Errorf(t, err != nil, "expected Load to reject a file without the snfr frame header")
}

func TestLoadMissingFile(t *testing.T) {
	var out payload
	err := jsp.Load(filepath.Join(t.TempDir(), "nope.snfr"), &out)
	tassert.Errorf(t, err != nil, "expected error loading a nonexistent file")
}
