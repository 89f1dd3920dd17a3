package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"beacon-radar.klederson.com/internal/config"
	"beacon-radar.klederson.com/internal/ibeacon"
	"beacon-radar.klederson.com/internal/logger"
)

type decodeOptions struct {
	legacy bool
	rssi   int16
	power  int8
}

func newDecodeCmd() *cobra.Command {
	var opts decodeOptions

	cmd := &cobra.Command{
		Use:   "decode [HEX...]",
		Short: "Decode iBeacon advertisement records given as hex",
		Long: `Decode full advertisement records (flags + manufacturer data, at least
31 bytes) given as hex arguments, or one per line on stdin.

With --rssi the distance estimate and proximity are printed as well.
--legacy reproduces the old decimal reading of major/minor.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeLog, err := logger.OpenFile(flagLogFile)
			if err != nil {
				return err
			}
			defer closeLog()
			if w == nil {
				w = os.Stderr
			}
			log := logger.Init(flagLogLevel, w)

			if len(args) == 0 {
				args, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			return decodeAll(cmd.OutOrStdout(), args, opts, log)
		},
	}

	cmd.Flags().BoolVar(&opts.legacy, "legacy", false, "Read major/minor the old way (hex digits as decimal)")
	cmd.Flags().Int16Var(&opts.rssi, "rssi", 0, "Signal strength in dBm for distance estimation (0 = none)")
	cmd.Flags().Int8Var(&opts.power, "power", 0, "Measured power at 1m in dBm (0 = use the frame's)")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// decodeAll prints one line per input. Records that are not iBeacon frames
// are reported, not treated as errors; malformed hex is.
func decodeAll(out io.Writer, inputs []string, opts decodeOptions, log zerolog.Logger) error {
	decode := ibeacon.Decode
	if opts.legacy {
		decode = ibeacon.DecodeLegacy
	}

	bad := 0
	for _, in := range inputs {
		raw, err := ibeacon.ParseHex(in)
		if err != nil {
			log.Error().Err(err).Str("input", in).Msg("skipping")
			bad++
			continue
		}

		id, ok := decode(raw)
		if !ok {
			fmt.Fprintf(out, "-\tnot an iBeacon frame (%d bytes)\n", len(raw))
			continue
		}

		power := opts.power
		if power == 0 {
			adv, _ := ibeacon.AdvertisedPower(raw)
			power = adv
		}
		if power >= 0 {
			power = config.DefaultMeasuredPower
		}
		rec := ibeacon.NewRecord(id, true, ibeacon.Observation{
			ManufacturerID: int(ibeacon.AppleCompanyID),
			RSSI:           opts.rssi,
			MeasuredPower:  power,
		})
		fmt.Fprintln(out, formatRecord(rec))
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d inputs could not be parsed", bad, len(inputs))
	}
	return nil
}

func formatRecord(rec ibeacon.Record) string {
	id, _ := rec.Identity()
	line := fmt.Sprintf("%s\tmajor=%d\tminor=%d\tpower=%d", id.UUID, id.Major, id.Minor, rec.MeasuredPower())
	if _, ok := rec.RSSI(); ok {
		line += fmt.Sprintf("\taccuracy=%.2fm\tproximity=%s", rec.Accuracy(), rec.Proximity())
	}
	return line
}
