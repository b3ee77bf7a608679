package objectfs

import (
	"fmt"

	"github.com/flatstore/objectfs/lib/kflags"
	"github.com/flatstore/objectfs/lib/logger"
)

type Modifier func(o *Options) error

func WithLogger(log logger.Logger) Modifier {
	return func(o *Options) error {
		o.logger = log
		return nil
	}
}

func WithMarkers(markers Markers) Modifier {
	return func(o *Options) error {
		if markers.TempDir == "" || markers.AttemptPrefix == "" || markers.SuccessFile == "" || markers.DirContentType == "" {
			return fmt.Errorf("incomplete marker vocabulary - %+v", markers)
		}
		o.markers = markers
		return nil
	}
}

func WithDeleteParallelism(workers int) Modifier {
	return func(o *Options) error {
		if workers < 1 {
			return fmt.Errorf("delete parallelism must be at least 1, got %d", workers)
		}
		o.deleteParallelism = workers
		return nil
	}
}

type Flags struct {
	TempDirName       string
	AttemptPrefix     string
	SuccessName       string
	DirContentType    string
	DeleteParallelism int
}

func DefaultFlags() *Flags {
	options := DefaultOptions()
	return &Flags{
		TempDirName:       options.markers.TempDir,
		AttemptPrefix:     options.markers.AttemptPrefix,
		SuccessName:       options.markers.SuccessFile,
		DirContentType:    options.markers.DirContentType,
		DeleteParallelism: options.deleteParallelism,
	}
}

func (f *Flags) Register(set kflags.FlagSet, prefix string) *Flags {
	set.StringVar(&f.TempDirName, prefix+"temp-dir-name", f.TempDirName, "Reserved directory name marking a job's scratch subtree")
	set.StringVar(&f.AttemptPrefix, prefix+"attempt-prefix", f.AttemptPrefix, "Name prefix of task attempt directories")
	set.StringVar(&f.SuccessName, prefix+"success-name", f.SuccessName, "Filename of the job completion sentinel")
	set.StringVar(&f.DirContentType, prefix+"dir-content-type", f.DirContentType, "Content type identifying directory marker objects")
	set.IntVar(&f.DeleteParallelism, prefix+"delete-parallelism", f.DeleteParallelism, "How many keys to delete concurrently during a recursive delete")
	return f
}

func WithFlags(flags *Flags) Modifier {
	return func(o *Options) error {
		if flags.TempDirName == "" {
			return kflags.NewUsageErrorf("a scratch directory name must be set with the --temp-dir-name option")
		}
		if err := WithMarkers(Markers{
			TempDir:        flags.TempDirName,
			AttemptPrefix:  flags.AttemptPrefix,
			SuccessFile:    flags.SuccessName,
			DirContentType: flags.DirContentType,
		})(o); err != nil {
			return err
		}
		if flags.DeleteParallelism != 0 {
			if err := WithDeleteParallelism(flags.DeleteParallelism)(o); err != nil {
				return err
			}
		}
		return nil
	}
}

type Options struct {
	markers Markers

	deleteParallelism int

	logger logger.Logger
}

func DefaultOptions() Options {
	return Options{
		markers:           DefaultMarkers(),
		deleteParallelism: 8,
		logger:            &logger.NilLogger{},
	}
}

// New creates a FileSystem over the supplied store client.
//
// The data root and host scheme are taken from the client and fixed for
// the lifetime of the filesystem.
func New(store StoreClient, mods ...Modifier) (*FileSystem, error) {
	options := DefaultOptions()
	for _, m := range mods {
		if err := m(&options); err != nil {
			return nil, err
		}
	}

	if store == nil {
		return nil, fmt.Errorf("incorrect API usage - need to provide a store client")
	}

	hostScheme := store.Scheme() + "://" + store.DataRoot() + "/"
	fs := &FileSystem{
		store:   store,
		keyer:   NewKeyer(hostScheme, store.DataRoot(), options.markers),
		log:     options.logger,
		options: options,
	}
	return fs, nil
}
