/*
gifinspect is a command line tool for reporting the structure of GIF
files and dumping their frames to PNG or BMP images.

gif-read is released under the BSD 2-clause license. See LICENSE in the
project's root folder for more details.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/InfinityTools/go-logging"
	"github.com/khalladay/gif-read/gif"
	"github.com/khalladay/gif-read/gifexport"
	"github.com/khalladay/gif-read/internal/playconfig"
)

const (
	toolName     = "gifinspect"
	versionMajor = 0
	versionMinor = 1
)

func main() {
	err := loadArgs(os.Args)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	if b, x := argsVerbose(); x {
		if b {
			logging.SetVerbosity(logging.LOG)
		} else {
			logging.SetVerbosity(logging.ERROR)
		}
	}
	logging.SetPrefixCaller(false)
	if b, x := argsLogStyle(); x && b {
		logging.SetPrefixTimestamp(true)
		logging.SetPrefixLevel(true)
	} else {
		logging.SetPrefixTimestamp(false)
		logging.SetPrefixLevel(false)
	}

	if _, x := argsVersion(); x {
		printVersion()
	} else if _, x := argsHelp(); x {
		printHelp()
	} else if batchFile, hasBatch := argsBatch(); hasBatch {
		if err := runBatch(batchFile); err != nil {
			logging.Errorf("%v\n", err)
			os.Exit(1)
		}
	} else if argsExtraLength() == 0 {
		printHelp()
	} else {
		if err := runDirect(); err != nil {
			logging.Errorf("%v\n", err)
			os.Exit(1)
		}
	}
}

// runBatch loads a JSON batch file via internal/playconfig and runs every
// job it describes in order.
func runBatch(configFile string) error {
	isStdin := configFile == "-"
	var r *os.File
	if isStdin {
		r = os.Stdin
	} else {
		fi, err := os.Stat(configFile)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("batch file not found: %q", configFile)
		}
		fin, err := os.Open(configFile)
		if err != nil {
			return fmt.Errorf("opening %q: %w", configFile, err)
		}
		defer fin.Close()
		r = fin
	}

	batch, err := playconfig.Load(r)
	if err != nil {
		return fmt.Errorf("loading batch configuration: %w", err)
	}

	for i, job := range batch {
		logging.Infof("Starting job %d: %s\n", i, job.Input)
		if err := runJob(job); err != nil {
			return fmt.Errorf("job %d (%s): %w", i, job.Input, err)
		}
		logging.Infof("Finished job %d\n", i)
	}
	return nil
}

// runDirect turns the CLI flags into a single playconfig.Job per extra
// argument, so single-file usage shares its execution path with batch
// mode instead of duplicating it.
func runDirect() error {
	mode := playconfig.MODE_RANDOM_ACCESS
	if m, x := argsMode(); x {
		mode = m
	}
	export := playconfig.EXPORT_PNG
	if e, x := argsExport(); x {
		export = e
	}
	outDir := ""
	if o, x := argsOutput(); x {
		outDir = o
	}
	step := 1
	if s, x := argsFrameStep(); x {
		step = s
	}
	loop, _ := argsLoopFrames()

	length := argsExtraLength()
	for idx := 0; idx < length; idx++ {
		input := argsExtra(idx)
		logging.Infof("Starting job %d: %s\n", idx, input)
		job := playconfig.Job{
			Input:      input,
			Mode:       mode,
			OutputDir:  outDir,
			Export:     export,
			FrameStep:  step,
			LoopFrames: loop,
		}
		if err := runJob(job); err != nil {
			return fmt.Errorf("job %d (%s): %w", idx, input, err)
		}
		logging.Infof("Finished job %d\n", idx)
	}
	return nil
}

// runJob decodes one GIF according to job, reports its structure, and
// dumps every job.FrameStep'th frame to job.OutputDir.
func runJob(job playconfig.Job) error {
	data, err := os.ReadFile(job.Input)
	if err != nil {
		return fmt.Errorf("reading %q: %w", job.Input, err)
	}

	img, decErr := decodeWithMode(data, job.Mode)
	if decErr != nil {
		return fmt.Errorf("decoding %q: %s", job.Input, decErr.Error())
	}

	format, err := gifexport.ParseFormat(job.Export)
	if err != nil {
		return err
	}

	logging.Logf("%s: %dx%d, %d frame(s), %.2fs total\n",
		job.Input, img.Width(), img.Height(), img.FrameCount(), img.TotalDuration())
	if count, ok := img.LoopCount(); ok {
		logging.Logf("%s: loop count %d\n", job.Input, count)
	}

	base := strings.TrimSuffix(filepath.Base(job.Input), filepath.Ext(job.Input))
	outDir := job.OutputDir
	if outDir == "" {
		outDir = "."
	}

	for i := 0; i < img.FrameCount(); i += job.FrameStep {
		frame, ferr := frameForMode(img, job.Mode, i)
		if ferr != nil {
			return fmt.Errorf("decoding frame %d of %q: %s", i, job.Input, ferr.Error())
		}
		name := fmt.Sprintf("%s_frame%04d", base, i)
		path, err := gifexport.WriteFrameFile(outDir, name, frame, img.Width(), img.Height(), format)
		if err != nil {
			return err
		}
		logging.Logf("wrote %s\n", path)
	}

	return nil
}

// decodeWithMode picks the retention-mode constructor a job's Mode field
// names.
func decodeWithMode(data []byte, mode string) (*gif.DecodedImage, *gif.DecodeError) {
	switch mode {
	case playconfig.MODE_INDEX_STREAM:
		return gif.NewIndexStreamImage(data)
	case playconfig.MODE_COMPRESSED:
		return gif.NewCompressedStreamImage(data)
	default:
		return gif.NewDecodedImage(data)
	}
}

// frameForMode returns frame i the way each retention mode makes it
// available: direct lookup for random-access, or FrameAt's fresh
// recomposition from frame 0 for the two streaming modes, since neither
// keeps an arbitrary
// frame's RGBA raster around already composited.
func frameForMode(img *gif.DecodedImage, mode string, i int) ([]byte, *gif.DecodeError) {
	if mode == playconfig.MODE_RANDOM_ACCESS || mode == "" {
		return img.Frame(i)
	}
	return img.FrameAt(i)
}

func printVersion() {
	fmt.Printf("%s version %d.%d\n", toolName, versionMajor, versionMinor)
}

func printHelp() {
	fmt.Printf("Usage: %s [options] giffile [giffile2 ...]\n", os.Args[0])
	const helpText = "Reports the structure of GIF files and dumps their frames to PNG or BMP.\n" +
		"\n" +
		"Options:\n" +
		"  --verbose                 Show additional log messages.\n" +
		"  --silent                  Suppress log messages except for errors.\n" +
		"  --log-style               Print log messages with timestamp and level.\n" +
		"  --mode=<name>             Decoding mode: random-access (default),\n" +
		"                            index-stream, or compressed.\n" +
		"  --export=<name>           Frame export format: png (default) or bmp.\n" +
		"  --output=<dir>            Directory frames are written to.\n" +
		"  --frame-step=<n>          Dump every nth frame, starting at 0.\n" +
		"  --loop-frames             Set the job's loop flag; frame dumping resolves\n" +
		"                            no times, so it does not change the output.\n" +
		"  --batch=<file>            Run a JSON batch configuration instead of\n" +
		"                            treating the extra arguments as GIF files.\n"
	fmt.Print(helpText)
}
