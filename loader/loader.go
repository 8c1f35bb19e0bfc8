// Package loader reads nccl files and layers them on top of each other.
//
// The first file given to LoadLayered is the highest priority layer,
// typically the user's own configuration. Every later file, such as a set of
// defaults, is parsed onto the tree built so far, so values the user set
// stay first and keys the user never set are filled in.
package loader

import (
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/shcv/nccl"
)

// ErrNotUTF8 is returned for a file whose contents are not valid UTF-8.
var ErrNotUTF8 = errors.New("not valid UTF-8")

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system files are read from. The default reads from
// the operating system with paths used as given.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *logrus.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// WithSkipMissing makes LoadLayered skip lower layers that do not exist
// instead of failing. The first layer must always exist.
func WithSkipMissing(skip bool) Option {
	return func(l *Loader) {
		l.skipMissing = skip
	}
}

// Loader reads and parses nccl files.
type Loader struct {
	fsys        fs.FS
	log         *logrus.Logger
	skipMissing bool
}

// osFS implements fs.FS over the real file system, accepting any path the
// os package does.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) { return os.Open(name) }

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// New returns a Loader configured with the given options.
func New(opts ...Option) *Loader {
	log := logrus.New()
	log.SetOutput(io.Discard)

	l := &Loader{
		fsys: osFS{},
		log:  log,
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// read returns the contents of the file at path as text.
func (l *Loader) read(path string) (string, error) {
	b, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}

	if !utf8.Valid(b) {
		return "", errors.Wrap(ErrNotUTF8, path)
	}
	return string(b), nil
}

// Load reads and parses the file at path.
func (l *Loader) Load(path string) (*nccl.Config, error) {
	return l.LoadWith(nil, path)
}

// LoadWith reads the file at path and parses it on top of a copy of seed.
// A nil seed is the same as Load.
func (l *Loader) LoadWith(seed *nccl.Config, path string) (*nccl.Config, error) {
	text, err := l.read(path)
	if err != nil {
		return nil, err
	}

	cfg, err := nccl.ParseWith(seed, text)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	l.log.WithFields(logrus.Fields{
		"path": path,
		"keys": cfg.Len(),
	}).Debug("loaded configuration")

	return cfg, nil
}

// LoadLayered loads each path in turn on top of the ones before it, highest
// priority first. With no paths it returns an empty tree.
func (l *Loader) LoadLayered(paths ...string) (*nccl.Config, error) {
	var cfg *nccl.Config

	for i, path := range paths {
		next, err := l.LoadWith(cfg, path)
		if err != nil {
			if i > 0 && l.skipMissing && errors.Is(err, fs.ErrNotExist) {
				l.log.WithFields(logrus.Fields{
					"path":  path,
					"layer": i,
				}).Debug("skipping missing layer")
				continue
			}
			return nil, err
		}
		cfg = next
	}

	if cfg == nil {
		cfg = nccl.New()
	}
	return cfg, nil
}
