// Command neats-bench is a thin benchmark driver over the neats package:
// it reads a binary file of little-endian int64 values, builds a
// compressor, and reports the resulting compression ratio and the timing
// of build, full decompression, and point-access operations. It is not
// part of the core: every number it prints comes from a public operation
// the core already exposes.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mxpucci/NeaTS/compressor"
)

func main() {
	var bpc int64

	app := &cli.Command{
		Name:  "neats-bench",
		Usage: "build a NeaTS compressor over a binary int64 file and report its stats",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "bpc",
				Usage:       "residual bit width, 1..63",
				Value:       16,
				Destination: &bpc,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return cli.Exit("error: a path to a binary int64 file is required", 1)
			}

			x, err := readInt64File(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if len(x) == 0 {
				return cli.Exit("error: input file is empty", 1)
			}

			if err := run(x, uint8(bpc)); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(x []int64, bpc uint8) error {
	c, err := compressor.New(bpc)
	if err != nil {
		return err
	}

	buildStart := time.Now()
	if err := c.Partition(x); err != nil {
		return err
	}
	buildElapsed := time.Since(buildStart)

	out := make([]int64, len(x))
	decompressStart := time.Now()
	if err := c.Decompress(out); err != nil {
		return err
	}
	decompressElapsed := time.Since(decompressStart)

	simdOut := make([]int64, len(x))
	simdStart := time.Now()
	if err := c.SIMDDecompress(simdOut); err != nil {
		return err
	}
	simdElapsed := time.Since(simdStart)

	accessStart := time.Now()
	const accessSamples = 10000
	for k := 0; k < accessSamples; k++ {
		i := uint64(k) * uint64(len(x)) / accessSamples
		if _, err := c.ValueAt(i); err != nil {
			return err
		}
	}
	accessElapsed := time.Since(accessStart)

	rawBits := uint64(len(x)) * 64
	compressedBits := c.SizeInBits()
	ratio := float64(rawBits) / float64(compressedBits)

	fmt.Printf("elements:          %d\n", len(x))
	fmt.Printf("bpc:               %d\n", bpc)
	fmt.Printf("raw size:          %d bytes\n", rawBits/8)
	fmt.Printf("compressed size:   %d bytes\n", (compressedBits+7)/8)
	fmt.Printf("compression ratio: %.3fx\n", ratio)
	fmt.Printf("build time:        %v (%.1f ns/elem)\n", buildElapsed, float64(buildElapsed.Nanoseconds())/float64(len(x)))
	fmt.Printf("decompress time:   %v (%.1f ns/elem)\n", decompressElapsed, float64(decompressElapsed.Nanoseconds())/float64(len(x)))
	fmt.Printf("simd decompress:   %v (%.1f ns/elem)\n", simdElapsed, float64(simdElapsed.Nanoseconds())/float64(len(x)))
	fmt.Printf("random access:     %v (%.1f ns/query, %d samples)\n", accessElapsed, float64(accessElapsed.Nanoseconds())/accessSamples, accessSamples)

	return nil
}

func readInt64File(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.Size()%8 != 0 {
		return nil, fmt.Errorf("%s: size %d is not a multiple of 8 bytes", path, stat.Size())
	}

	n := stat.Size() / 8
	out := make([]int64, n)
	if err := binary.Read(f, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
