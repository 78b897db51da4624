package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanClassification(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/index.ts", `
import { local } from './local'
import { shared } from '@acme/shared'
import _ from 'lodash'
`)

	cls := Classifier{
		RootDependencies: map[string]bool{"@acme/shared": true},
	}

	res, err := Scan(root, "@acme/app", nil, cls)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !reflect.DeepEqual(res.Internal, []string{"@acme/shared"}) {
		t.Errorf("Internal = %v, want [@acme/shared]", res.Internal)
	}
	if !reflect.DeepEqual(res.External, []string{"lodash"}) {
		t.Errorf("External = %v, want [lodash]", res.External)
	}
}

func TestScanNormalizesDeepImports(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/util.ts", `
import merge from 'lodash/merge'
import { Button } from '@acme/ui/components/button'
export * from '@acme/ui/theme'
const fp = require('lodash/fp')
`)

	cls := Classifier{Aliases: map[string]bool{"@acme/ui": true}}

	res, err := Scan(root, "@acme/app", nil, cls)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !reflect.DeepEqual(res.Internal, []string{"@acme/ui"}) {
		t.Errorf("Internal = %v, want [@acme/ui]", res.Internal)
	}
	if !reflect.DeepEqual(res.External, []string{"lodash"}) {
		t.Errorf("External = %v, want [lodash]", res.External)
	}
}

func TestScanSkipsTestFilesAndIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/index.ts", `import 'zod'`)
	writeSource(t, root, "src/index.test.ts", `import 'jest-only'`)
	writeSource(t, root, "src/other.spec.ts", `import 'vitest-only'`)
	writeSource(t, root, "src/__tests__/helper.ts", `import 'helper-only'`)
	writeSource(t, root, "node_modules/dep/index.js", `import 'vendored'`)
	writeSource(t, root, "dist/index.js", `import 'built'`)

	res, err := Scan(root, "@acme/app", nil, Classifier{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !reflect.DeepEqual(res.External, []string{"zod"}) {
		t.Errorf("External = %v, want [zod]", res.External)
	}
}

func TestScanExtraSkipDirs(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/index.ts", `import 'kept'`)
	writeSource(t, root, "generated/index.ts", `import 'dropped'`)

	res, err := Scan(root, "@acme/app", []string{"generated"}, Classifier{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if !reflect.DeepEqual(res.External, []string{"kept"}) {
		t.Errorf("External = %v, want [kept]", res.External)
	}
}

func TestScanDiscardsUnresolvableTargets(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/dynamic.ts", "const m = require('pkg-${env}')\nimport('/abs/path')\nimport { a } from '.'\n")

	res, err := Scan(root, "@acme/app", nil, Classifier{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(res.Internal) != 0 || len(res.External) != 0 {
		t.Errorf("expected no classified names, got internal=%v external=%v", res.Internal, res.External)
	}
}

func TestScanCollectsAssets(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "README.md", "# readme")
	writeSource(t, root, "docs/logo.png", "png-bytes")
	writeSource(t, root, "src/index.ts", `export {}`)

	res, err := Scan(root, "@acme/app", nil, Classifier{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"README.md", "docs/logo.png"}
	if !reflect.DeepEqual(res.Assets, want) {
		t.Errorf("Assets = %v, want %v", res.Assets, want)
	}
}

func TestScanDeterministicOrder(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/a.ts", `import 'zebra'; import 'alpha'`)
	writeSource(t, root, "src/b.ts", `import 'middle'; import 'alpha'`)

	res, err := Scan(root, "@acme/app", nil, Classifier{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"alpha", "middle", "zebra"}
	if !reflect.DeepEqual(res.External, want) {
		t.Errorf("External = %v, want sorted deduplicated %v", res.External, want)
	}
}

func TestNormalizeTarget(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"@scope/pkg/sub/path", "@scope/pkg", true},
		{"pkg/sub/path", "pkg", true},
		{"pkg", "pkg", true},
		{"./local", "", false},
		{"../up", "", false},
		{"/abs", "", false},
		{"@scope", "", false},
		{"pkg-${env}", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := normalizeTarget(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("normalizeTarget(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
