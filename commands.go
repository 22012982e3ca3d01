package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"toolup/pkg/archive"
	"toolup/pkg/config"
	"toolup/pkg/disk"
	"toolup/pkg/display"
	"toolup/pkg/installer"
	"toolup/pkg/manifest"
	"toolup/pkg/notify"
	"toolup/pkg/receipts"
	"toolup/pkg/tracker"
)

type globalFlags struct {
	noProgress bool
	mode       string
	jobs       int
	manifest   string
	verbose    bool
	available  bool
}

type app struct {
	flags globalFlags
	cfg   config.ReadOnly
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "toolup",
		Short:         "Download and install toolchain components",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&a.flags.noProgress, "no-progress", false, "disable progress bars")
	pf.StringVar(&a.flags.mode, "mode", "", "progress display mode (multi|single)")
	pf.IntVarP(&a.flags.jobs, "jobs", "j", 1, "number of components to install concurrently")
	pf.StringVar(&a.flags.manifest, "manifest", "", "path or URL of the component manifest")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	install := &cobra.Command{
		Use:   "install <component>...",
		Short: "Install components from the manifest",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runInstall,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List installed components",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}
	list.Flags().BoolVar(&a.flags.available, "available", false, "list the components of the manifest instead")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GetBuildInfo())
		},
	}

	diskCmd := &cobra.Command{
		Use:   "disk",
		Short: "Show disk usage of components and downloads",
		Args:  cobra.NoArgs,
		RunE:  a.runDiskInfo,
	}
	diskCmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove cached downloads",
		Args:  cobra.NoArgs,
		RunE:  a.runDiskClean,
	})

	root.AddCommand(install, list, diskCmd, version)
	return root
}

// loadConfig layers command line flags over the settings file.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	w := cfg.Checkout()
	flags := cmd.Flags()
	if flags.Changed("no-progress") {
		w.SetDisplayProgress(!a.flags.noProgress)
	}
	if flags.Changed("mode") {
		m, err := config.ParseMode(a.flags.mode)
		if err != nil {
			return err
		}
		w.SetMode(m)
	}
	if flags.Changed("jobs") {
		w.SetJobs(a.flags.jobs)
	}
	if flags.Changed("manifest") {
		w.SetManifest(a.flags.manifest)
	}
	cfg.Freeze()

	a.cfg = cfg
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// progress builds the sink and tracker for the configured mode. Log output
// must go to the returned writer so it does not tear the progress rows.
func (a *app) progress(tty bool) (display.Sink, tracker.Tracker, io.Writer) {
	opts := []tracker.Option{
		tracker.WithDisplayProgress(a.cfg.GetDisplayProgress()),
		tracker.WithTerminal(tty),
	}

	if a.cfg.GetMode() == config.ModeSingle {
		sink := display.NewLineSink(color.Error)
		return sink, tracker.NewSingle(sink, opts...), color.Error
	}

	sink := display.NewMultiSink(color.Error, a.cfg.GetDisplayProgress() && tty)
	return sink, tracker.NewMulti(sink, opts...), sink.Writer()
}

func (a *app) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if a.flags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (a *app) runInstall(cmd *cobra.Command, names []string) error {
	ctx := cmd.Context()

	m, err := manifest.Load(ctx, a.cfg.GetManifest())
	if err != nil {
		return err
	}
	plans, err := installer.NewPlans(a.cfg, m, names)
	if err != nil {
		return err
	}

	sink, tr, logOut := a.progress(isTerminal(os.Stderr))
	log := a.logger(logOut)
	slog.SetDefault(log)

	jobs := a.cfg.GetJobs()
	if a.cfg.GetMode() == config.ModeSingle && jobs > 1 {
		log.Warn("Single mode tracks one download at a time, installing sequentially", "jobs", jobs)
		jobs = 1
	}

	env := &installer.Env{
		Receipts: receipts.Open(a.cfg.GetReceiptsFile()),
		Handler:  notify.Chain(tr, notify.Logger(log)),
	}
	err = installer.InstallAll(ctx, plans, jobs, env)
	sink.Close()
	return err
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	con := display.NewWriterConsole(cmd.OutOrStdout())

	if a.flags.available {
		m, err := manifest.Load(cmd.Context(), a.cfg.GetManifest())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(m.Components))
		for _, c := range m.Components {
			cached := "-"
			if p, err := installer.NewPlan(a.cfg, c); err == nil {
				if fi, err := os.Stat(p.DownloadPath); err == nil {
					cached = humanize.IBytes(uint64(fi.Size()))
				}
			}
			rows = append(rows, []string{c.Name, c.Version, archiveFormat(c.FileName()), cached, c.URL})
		}
		con.Table([]string{"NAME", "VERSION", "FORMAT", "CACHED", "URL"}, rows)
		return nil
	}

	list, err := receipts.Open(a.cfg.GetReceiptsFile()).List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		con.Print("No components installed.\n")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.Name,
			r.Version,
			strconv.Itoa(r.Entries),
			humanize.Time(r.InstalledAt),
			r.Path,
		})
	}
	con.Table([]string{"NAME", "VERSION", "ENTRIES", "INSTALLED", "PATH"}, rows)
	return nil
}

func (a *app) runDiskInfo(cmd *cobra.Command, args []string) error {
	con := display.NewWriterConsole(cmd.OutOrStdout())

	stats, total := disk.Info(a.cfg)
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, []string{s.Label, humanize.IBytes(uint64(s.Size)), strconv.Itoa(s.Items), s.Path})
	}
	con.Table([]string{"TYPE", "SIZE", "ITEMS", "PATH"}, rows)
	con.Print(fmt.Sprintf("Total: %s\n", humanize.IBytes(uint64(total))))
	return nil
}

func (a *app) runDiskClean(cmd *cobra.Command, args []string) error {
	slog.SetDefault(a.logger(cmd.ErrOrStderr()))
	freed, err := disk.CleanDownloads(a.cfg)
	if err != nil {
		return err
	}
	display.NewWriterConsole(cmd.OutOrStdout()).Print(fmt.Sprintf("Freed %s\n", humanize.IBytes(uint64(freed))))
	return nil
}

// archiveFormat names the archive format of filename, or "file" for
// downloads that are installed as-is.
func archiveFormat(filename string) string {
	format := ""
	for _, ext := range archive.SupportedExtensions() {
		if strings.HasSuffix(filename, ext) && len(ext) > len(format) {
			format = ext
		}
	}
	if format == "" {
		return "file"
	}
	return strings.TrimPrefix(format, ".")
}
