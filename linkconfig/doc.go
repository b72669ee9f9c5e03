// Package linkconfig loads link declarations and registry settings from a
// YAML or TOML manifest.
//
// A manifest binds logical controller keys to link specs:
//
//	context_path: /app
//	controllers:
//	  - key: profile
//	    links:
//	      - pattern: "profile/{handle};p/{handle}"
//	        action: show
//
// The Go types behind the keys are supplied by the caller when the manifest
// is applied:
//
//	f, err := linkconfig.Load("links.yaml")
//	if err != nil {
//		return err
//	}
//	reg := link.New(f.Config())
//	err = f.Apply(reg, map[string]any{"profile": ProfilePage{}})
package linkconfig
