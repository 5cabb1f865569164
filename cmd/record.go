package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gridlog/internal/capture"
	"gridlog/internal/config"
	"gridlog/internal/log"
	"gridlog/internal/pipeline"
	"gridlog/internal/record"
	"gridlog/internal/sink"
	"gridlog/internal/telemetry"
)

var (
	trackName string
	udpPort   int
	outputDir string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Capture live UDP telemetry into a session CSV file",
	Long: `Bind the telemetry UDP port and record decoded packets until
interrupted (Ctrl+C / SIGTERM).

Examples:
  gridlog record --track monza                 # listen on the default port 20777
  gridlog record --track spa --port 20778      # custom port
  gridlog record --track suzuka -c config.yml  # with a config file
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Listen.Port = udpPort
		}
		if outputDir != "" {
			cfg.Output.Dir = outputDir
		}
		if err := log.Init(&cfg.Log); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runRecord(ctx, cfg, trackName)
	},
}

func init() {
	recordCmd.Flags().StringVarP(&trackName, "track", "t", "", "track name used in the output file name")
	recordCmd.Flags().IntVarP(&udpPort, "port", "p", 20777, "UDP port to listen on")
	recordCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (overrides config)")
	recordCmd.MarkFlagRequired("track")
	rootCmd.AddCommand(recordCmd)
}

// runRecord opens the session file first, then binds the socket: a
// failure to create the output never leaves a bound port behind, and a
// bind failure aborts after closing the barely-created file.
func runRecord(ctx context.Context, cfg *config.Config, track string) error {
	logger := log.GetLogger()
	startedAt := time.Now().UTC()

	writer, err := sink.Open(cfg.Output.Dir, track, startedAt, cfg.Output.FlushInterval)
	if err != nil {
		return err
	}

	source, err := capture.ListenUDP(cfg.Listen.Host, cfg.Listen.Port,
		cfg.Listen.ReadTimeout, cfg.Listen.BufferSize)
	if err != nil {
		writer.Close()
		return err
	}

	logger.Infof("listening on %s, recording to %s", source.LocalAddr(), writer.Path())

	session := record.NewSession(track, startedAt)
	p := pipeline.New(pipeline.Config{
		Source:        source,
		Registry:      telemetry.NewRegistry(),
		Assembler:     record.NewAssembler(session),
		Writer:        writer,
		Format:        telemetry.Format{PacketFormat: cfg.Format.PacketFormat, GameYear: cfg.Format.GameYear},
		QueueCapacity: cfg.Queue.Capacity,
		DropPolicy:    cfg.Queue.DropPolicy,
		Track:         track,
		StartedAt:     startedAt,
		WriteSummary:  cfg.Output.Summary,
	})

	return p.Run(ctx)
}
