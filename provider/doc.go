// Package provider holds named, swappable backend implementations.
//
// A Registry maps names to factories so the configured backend is built only
// when it is first needed:
//
//	reg := provider.NewRegistry[transcription.Backend]()
//	reg.RegisterFactory("whisper-cli", func(map[string]any) (transcription.Backend, error) {
//	    return whispercli.New(cliCfg), nil
//	})
//	backend, err := reg.Create("whisper-cli", nil)
package provider
