package main

import(
	"flag"
	"log"
	"os"

	"github.com/luckyimaging/listack/pkg/liopt"
	"github.com/luckyimaging/listack/pkg/listack"
)

var(
	Log *log.Logger

	fConfigFilename string
	fOpticsFilename string
	fOutputFilename string
	fMethod string
	fMode string
	fNumFrames int
	fSigmaPx float64
	fSeed int64
	fFSR float64
	fSubPixel bool
	fCorrMargin int
	fVerbosity int
)

func init() {
	flag.StringVar(&fConfigFilename, "config", "", "pipeline config yaml (flags override it)")
	flag.StringVar(&fOpticsFilename, "optics", "", "optical system yaml (default: the AOI system)")
	flag.StringVar(&fOutputFilename, "o", "out.png", "name of output composite image file")
	flag.StringVar(&fMethod, "method", "xcorr", "alignment method: peak_pixel, centroid or xcorr")
	flag.StringVar(&fMode, "mode", "parallel", "execution mode: serial or parallel")
	flag.IntVar(&fNumFrames, "n", 50, "how many turbulence-degraded frames to synthesize")
	flag.Float64Var(&fSigmaPx, "sigma", 2.0, "tip/tilt std dev, in pixels")
	flag.Int64Var(&fSeed, "seed", 1, "seed for the tip/tilt draws")
	flag.Float64Var(&fFSR, "fsr", 1.0, "frame selection rate, in (0,1]")
	flag.BoolVar(&fSubPixel, "subpixel", true, "xcorr: fit for sub-pixel shifts")
	flag.IntVar(&fCorrMargin, "margin", 25, "xcorr: border excluded from the correlation surface")
	flag.IntVar(&fVerbosity, "v", 1, "verbosity")
	flag.Parse()

	Log = log.New(os.Stdout, "", log.Ldate|log.Ltime)
	log.Printf("Starting\n")
}

func main() {
	cfg := listack.NewConfig()
	if fConfigFilename != "" {
		var err error
		if cfg, err = listack.LoadConfig(fConfigFilename); err != nil {
			Log.Fatal(err)
		}
	}

	// Override the config file with command line args, if relevant
	cfg.Method = fMethod
	cfg.Mode = fMode
	cfg.SelectionFrac = fFSR
	cfg.SubPixel = fSubPixel
	cfg.CorrMargin = fCorrMargin
	cfg.Verbosity = fVerbosity

	optics := liopt.AOISystem()
	if fOpticsFilename != "" {
		var err error
		if optics, err = liopt.LoadOpticalSystem(fOpticsFilename); err != nil {
			Log.Fatal(err)
		}
	}
	log.Printf("Optics: %s\n", optics)

	// A noiseless star in the middle of the detector stands in for the
	// wavefront simulator's output.
	det := optics.Detector
	truth := listack.PointSource(det.WidthPx, det.HeightPx,
		float64(det.HeightPx)/2, float64(det.WidthPx)/2, 2.0, float64(det.Saturation))

	producer := listack.InjectorProducer{
		Truth: truth,
		Cfg:   listack.TipTiltConfig{SigmaPx: fSigmaPx, Seed: fSeed},
	}
	frames, err := producer.Frames(fNumFrames)
	if err != nil {
		Log.Fatal(err)
	}
	log.Printf("Synthesized %d frames, tip/tilt sigma %.2fpx\n", len(frames), fSigmaPx)

	result, err := listack.RunWithReference(frames, truth, cfg)
	if err != nil {
		log.Fatalf("shift and stack failed, err: %v\n", err)
	}
	log.Printf("Stacked: %s\n", result.Stacked)

	report, err := listack.AnalyzeAlignment(producer.LastShifts, result.Shifts)
	if err != nil {
		Log.Fatal(err)
	}
	if fVerbosity > 0 {
		log.Printf("Alignment errors:\n%s", report)
	} else {
		log.Printf("Mean alignment error %.3fpx, %d/%d misaligned\n",
			report.Mean, report.NumMisaligned, len(report.PerFrame))
	}

	result.Stacked.Image.ToImg("shifted and stacked", fOutputFilename)
	log.Printf("Composite written to '%s'\n", fOutputFilename)
}
