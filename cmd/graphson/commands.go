package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobertWHurst/graphson"
	jsonencoder "github.com/RobertWHurst/graphson/encoders/json"
	msgpackencoder "github.com/RobertWHurst/graphson/encoders/msgpack"
	protobufencoder "github.com/RobertWHurst/graphson/encoders/protobuf"
	yamlencoder "github.com/RobertWHurst/graphson/encoders/yaml"
)

var formats = map[string]func(*graphson.Codec) graphson.Encoder{
	"json":     func(c *graphson.Codec) graphson.Encoder { return jsonencoder.NewWithCodec(c) },
	"msgpack":  func(c *graphson.Codec) graphson.Encoder { return msgpackencoder.NewWithCodec(c) },
	"yaml":     func(c *graphson.Codec) graphson.Encoder { return yamlencoder.NewWithCodec(c) },
	"protobuf": func(c *graphson.Codec) graphson.Encoder { return protobufencoder.NewWithCodec(c) },
}

func formatNames() string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

type options struct {
	verbose  bool
	maxDepth int
}

func (o *options) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (o *options) codec(logger *slog.Logger) *graphson.Codec {
	return graphson.New(graphson.WithLogger(logger), graphson.WithMaxDepth(o.maxDepth))
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "graphson",
		Short:         "Convert and validate graphson documents",
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", graphson.DefaultMaxDepth, "maximum nesting depth")
	root.AddCommand(newConvertCmd(opts), newCheckCmd(opts))
	return root
}

func newConvertCmd(opts *options) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Read a document from stdin and write it to stdout in another format",
		Long: "Read a document from stdin, rebuild its graph, and write it to stdout.\n" +
			"Formats: " + formatNames() + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codec := opts.codec(opts.logger(cmd))
			dec, err := lookupFormat(from, codec)
			if err != nil {
				return err
			}
			enc, err := lookupFormat(to, codec)
			if err != nil {
				return err
			}

			value, err := readGraph(cmd.InOrStdin(), dec)
			if err != nil {
				return err
			}
			data, err := enc.Encode(value)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", "json", "input format")
	cmd.Flags().StringVar(&to, "to", "json", "output format")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a document read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.logger(cmd)
			dec, err := lookupFormat(format, opts.codec(logger))
			if err != nil {
				return err
			}
			value, err := readGraph(cmd.InOrStdin(), dec)
			if err != nil {
				return err
			}
			logger.Info("document ok", "format", format, "root", fmt.Sprintf("%T", value))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "input format")
	return cmd
}

func lookupFormat(name string, codec *graphson.Codec) (graphson.Encoder, error) {
	newEncoder, ok := formats[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (expected one of %s)", name, formatNames())
	}
	return newEncoder(codec), nil
}

func readGraph(r io.Reader, dec graphson.Encoder) (any, error) {
	data, err := io.ReadAll(io.LimitReader(r, graphson.MaxDecodeSize+1))
	if err != nil {
		return nil, err
	}
	var value any
	if err := dec.Decode(data, &value); err != nil {
		return nil, err
	}
	return value, nil
}
