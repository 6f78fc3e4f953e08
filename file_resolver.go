// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/z5labs/envcompose/config"
	"github.com/z5labs/envcompose/config/configtmpl"
)

// FileResolverOption configures a [FileResolver].
type FileResolverOption func(*FileResolver)

// FilePrefix sets the file name prefix of unit files. Defaults to "webpack".
func FilePrefix(prefix string) FileResolverOption {
	return func(fr *FileResolver) {
		fr.prefix = prefix
	}
}

// Extensions sets the file extensions probed for unit files, in order
// of preference. Defaults to "yaml", "yml" and "json".
func Extensions(exts ...string) FileResolverOption {
	return func(fr *FileResolver) {
		fr.exts = exts
	}
}

// RenderTemplates renders unit files with text/template before they are
// decoded. The "env" and "default" functions from [configtmpl] are always
// available. Rendered units are factories: the file is rendered on every
// call with [TemplateData] as the template data.
func RenderTemplates(opts ...config.RenderTextTemplateOption) FileResolverOption {
	return func(fr *FileResolver) {
		fr.render = true
		fr.tmplOpts = opts
	}
}

// TemplateData is what "." refers to within a rendered unit file.
type TemplateData struct {
	// Env is the resolved environment name.
	Env string

	// Vars holds the extra values of an [EnvObject] descriptor.
	Vars map[string]string
}

// FileResolver is a Resolver which loads units from files named
// <prefix>.<env>.<ext> within a directory of an fs.FS.
type FileResolver struct {
	fsys     fs.FS
	dir      string
	prefix   string
	exts     []string
	render   bool
	tmplOpts []config.RenderTextTemplateOption
}

// NewFileResolver returns a FileResolver for unit files found in dir.
func NewFileResolver(fsys fs.FS, dir string, opts ...FileResolverOption) *FileResolver {
	fr := &FileResolver{
		fsys:   fsys,
		dir:    dir,
		prefix: "webpack",
		exts:   []string{"yaml", "yml", "json"},
	}
	for _, opt := range opts {
		opt(fr)
	}
	return fr
}

// InvalidEnvNameError occurs when an environment name
// cannot be used as part of a file name.
type InvalidEnvNameError struct {
	Env string
}

// Error implements the error interface.
func (e InvalidEnvNameError) Error() string {
	return fmt.Sprintf("invalid environment name for a file name: %q", e.Env)
}

func (fr *FileResolver) candidates(env string) []string {
	ps := make([]string, len(fr.exts))
	for i, ext := range fr.exts {
		ps[i] = path.Join(fr.dir, fr.prefix+"."+env+"."+ext)
	}
	return ps
}

// Location implements the [Resolver] interface. It returns the first
// candidate file which exists or, if none exist, the first candidate.
func (fr *FileResolver) Location(env string) string {
	ps := fr.candidates(env)
	if len(ps) == 0 {
		return path.Join(fr.dir, fr.prefix+"."+env)
	}
	for _, p := range ps {
		_, err := fs.Stat(fr.fsys, p)
		if err == nil {
			return p
		}
	}
	return ps[0]
}

// Resolve implements the [Resolver] interface.
func (fr *FileResolver) Resolve(ctx context.Context, env string) (Unit, error) {
	if strings.ContainsAny(env, `/\`) || strings.Contains(env, "..") {
		return Unit{}, InvalidEnvNameError{Env: env}
	}

	p := fr.Location(env)
	_, err := fs.Stat(fr.fsys, p)
	if err != nil {
		return Unit{}, err
	}

	if !fr.render {
		m, err := fr.decode(p, config.NewFileReader(fr.fsys, p))
		if err != nil {
			return Unit{}, err
		}
		return Value(m), nil
	}

	return Factory(func(ctx context.Context, d Descriptor) (config.Map, error) {
		data := TemplateData{Env: env}
		if obj, ok := d.(EnvObject); ok {
			data.Vars = obj.Vars
		}

		opts := []config.RenderTextTemplateOption{
			config.TemplateData(data),
		}
		for name, f := range configtmpl.FuncMap() {
			opts = append(opts, config.TemplateFunc(name, f))
		}
		opts = append(opts, fr.tmplOpts...)

		r := config.RenderTextTemplate(config.NewFileReader(fr.fsys, p), opts...)
		return fr.decode(p, r)
	}), nil
}

// Envs lists the environments which have a unit file, sorted by name.
func (fr *FileResolver) Envs() ([]string, error) {
	var envs []string
	for _, ext := range fr.exts {
		matches, err := fs.Glob(fr.fsys, path.Join(fr.dir, fr.prefix+".*."+ext))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			env := strings.TrimSuffix(strings.TrimPrefix(path.Base(m), fr.prefix+"."), "."+ext)
			if env == "" || slices.Contains(envs, env) {
				continue
			}
			envs = append(envs, env)
		}
	}
	slices.Sort(envs)
	return envs, nil
}

func (fr *FileResolver) decode(p string, r io.Reader) (config.Map, error) {
	if path.Ext(p) == ".json" {
		return config.DecodeJson(r)
	}
	return config.DecodeYaml(r)
}
