package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flatstore/objectfs/lib/kflags"
	"github.com/flatstore/objectfs/lib/kflags/kcobra"
	"github.com/flatstore/objectfs/objectfs"
	"github.com/flatstore/objectfs/objectfs/gcs"
)

type app struct {
	bucket  string
	scheme  string
	creds   string
	verbose bool

	fsFlags *objectfs.Flags
	log     *logrus.Logger
}

func (a *app) register(set kflags.FlagSet) {
	set.StringVar(&a.bucket, "bucket", "", "GCS bucket backing the filesystem")
	set.StringVar(&a.scheme, "scheme", "ofs", "URI scheme paths are rooted at")
	set.StringVar(&a.creds, "credentials-file", "", "Credentials file to use to authenticate against gcs")
	set.BoolVar(&a.verbose, "verbose", false, "Log every filesystem operation")
	a.fsFlags.Register(set, "")
}

func (a *app) filesystem(ctx context.Context) (*objectfs.FileSystem, error) {
	if a.bucket == "" {
		return nil, kflags.NewUsageErrorf("a bucket must be specified with the --bucket option")
	}
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}

	mods := []gcs.Modifier{gcs.WithScheme(a.scheme)}
	if a.creds != "" {
		mods = append(mods, gcs.WithCredentialsFile(a.creds))
	}
	store, err := gcs.New(ctx, a.bucket, mods...)
	if err != nil {
		return nil, err
	}
	return objectfs.New(store, objectfs.WithFlags(a.fsFlags), objectfs.WithLogger(a.log))
}

// resolve turns a root-relative path into a fully qualified one.
func resolve(fs *objectfs.FileSystem, p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	return fs.HostScheme() + strings.TrimPrefix(p, "/")
}

func (a *app) lsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls <path>",
		Short: "Lists the entries visible at a path",
		Args:  cobra.ExactArgs(1),
	}
	var prefixBased bool
	cmd.Flags().BoolVar(&prefixBased, "prefix", false, "Treat the path as a raw name prefix rather than a directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := a.filesystem(ctx)
		if err != nil {
			return err
		}
		entries, err := fs.List(ctx, resolve(fs, args[0]), nil, prefixBased)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			kind := "file"
			if entry.IsDir {
				kind = "dir"
			}
			fmt.Printf("%-4s %12d  %s\n", kind, entry.Size, entry.Path)
		}
		return nil
	}
	return cmd
}

func (a *app) catCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Prints the content of an object on stdout",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := a.filesystem(ctx)
		if err != nil {
			return err
		}
		r, err := fs.Open(ctx, resolve(fs, args[0]))
		if err != nil {
			return err
		}
		defer r.Close()
		_, err = io.Copy(os.Stdout, r)
		return err
	}
	return cmd
}

func (a *app) putCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <local-file> <path>",
		Short: "Uploads a local file, applying the commit translation to the destination path",
		Args:  cobra.ExactArgs(2),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := a.filesystem(ctx)
		if err != nil {
			return err
		}
		local, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer local.Close()

		w, err := fs.Create(ctx, resolve(fs, args[1]))
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, local); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	}
	return cmd
}

func (a *app) rmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Deletes an object, or a logical path and all its descendants",
		Args:  cobra.ExactArgs(1),
	}
	var recursive bool
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "Delete descendants as well")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := a.filesystem(ctx)
		if err != nil {
			return err
		}
		_, err = fs.Delete(ctx, resolve(fs, args[0]), recursive)
		return err
	}
	return cmd
}

func (a *app) mkdirsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkdirs <path>",
		Short: "Emulates directory creation, writing an output root marker when needed",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fs, err := a.filesystem(ctx)
		if err != nil {
			return err
		}
		_, err = fs.Mkdirs(ctx, resolve(fs, args[0]))
		return err
	}
	return cmd
}

func main() {
	a := &app{
		fsFlags: objectfs.DefaultFlags(),
		log:     logrus.New(),
	}

	root := &cobra.Command{
		Use:   "ofsctl",
		Short: "Inspect and manage job output stored through objectfs",

		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.register(&kcobra.FlagSet{FlagSet: root.PersistentFlags()})

	root.AddCommand(a.lsCommand())
	root.AddCommand(a.catCommand())
	root.AddCommand(a.putCommand())
	root.AddCommand(a.rmCommand())
	root.AddCommand(a.mkdirsCommand())

	root.SetContext(context.Background())
	kcobra.Run(root)
}
