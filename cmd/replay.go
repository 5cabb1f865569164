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
	replayTrack string
	replayFile  string
	replayPort  int
	replayOut   string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-process a pcap capture through the recording pipeline",
	Long: `Read UDP datagrams out of a pcap file and run them through the same
decode/record pipeline as live capture. Row timestamps come from the
capture records. The run stops at end of file.

Examples:
  gridlog replay --track monza --file race.pcap
  gridlog replay --track spa --file race.pcap --port 20778
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Listen.Port = replayPort
		}
		if replayOut != "" {
			cfg.Output.Dir = replayOut
		}
		if err := log.Init(&cfg.Log); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runReplay(ctx, cfg, replayTrack, replayFile)
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayTrack, "track", "t", "", "track name used in the output file name")
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "", "pcap file to replay")
	replayCmd.Flags().IntVarP(&replayPort, "port", "p", 20777, "telemetry UDP port to filter for")
	replayCmd.Flags().StringVarP(&replayOut, "output-dir", "o", "", "output directory (overrides config)")
	replayCmd.MarkFlagRequired("track")
	replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(ctx context.Context, cfg *config.Config, track, file string) error {
	logger := log.GetLogger()
	startedAt := time.Now().UTC()

	writer, err := sink.Open(cfg.Output.Dir, track, startedAt, cfg.Output.FlushInterval)
	if err != nil {
		return err
	}

	source, err := capture.OpenPcap(file, uint16(cfg.Listen.Port))
	if err != nil {
		writer.Close()
		return err
	}

	logger.Infof("replaying %s, recording to %s", file, writer.Path())

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
