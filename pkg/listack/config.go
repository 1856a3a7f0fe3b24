package listack

import(
	"fmt"
	"image"
	"io/ioutil"

	"gopkg.in/yaml.v2"
)

/* Example config file ...

method: xcorr
mode: parallel
subpixel: true
corrmargin: 25

# peak_pixel only
selectionfrac: 0.8
searcharea:
  min:
    x: 200
    y: 200
  max:
    x: 312
    y: 312

*/

// The registration algorithms. Closed set - anything else is rejected
// up front, before a single frame is touched.
type AlignmentMethod int

const (
	PeakPixel AlignmentMethod = iota  // align on the brightest pixel (Aspin et al. 1997)
	Centroid                          // align on the intensity center of mass
	CrossCorrelation                  // align on the correlation peak, optionally sub-pixel
)

func ParseAlignmentMethod(name string) (AlignmentMethod, error) {
	switch name {
	case "peak_pixel": return PeakPixel, nil
	case "centroid":   return Centroid, nil
	case "xcorr":      return CrossCorrelation, nil
	}
	return 0, fmt.Errorf("%w: no alignment method named '%s'", ErrInvalidConfig, name)
}

func (m AlignmentMethod)String() string {
	switch m {
	case PeakPixel:        return "peak_pixel"
	case Centroid:         return "centroid"
	case CrossCorrelation: return "xcorr"
	}
	return fmt.Sprintf("AlignmentMethod(%d)", int(m))
}

// How the per-frame registration tasks get dispatched. Both modes
// run the very same arithmetic, so their outputs must agree.
type ExecMode int

const (
	Serial ExecMode = iota
	Parallel
)

func ParseExecMode(name string) (ExecMode, error) {
	switch name {
	case "serial":   return Serial, nil
	case "parallel": return Parallel, nil
	}
	return 0, fmt.Errorf("%w: no execution mode named '%s'", ErrInvalidConfig, name)
}

func (m ExecMode)String() string {
	switch m {
	case Serial:   return "serial"
	case Parallel: return "parallel"
	}
	return fmt.Sprintf("ExecMode(%d)", int(m))
}

type Config struct {
	Method        string           // "peak_pixel", "centroid" or "xcorr"
	Mode          string           // "serial" or "parallel"

	SelectionFrac float64          // in (0,1]; <1 ranks frames by peak and keeps the top fraction (peak_pixel only)
	SearchArea   *image.Rectangle  // peak_pixel sub-window to hunt for the peak in; nil means the whole frame
	SubPixel      bool             // xcorr: fit a Gaussian to the correlation peak
	CorrMargin    int              // xcorr: border excluded from each edge of the correlation surface before fitting
	MaxFrames     int              // 0 means register every candidate frame

	Verbosity     int

	// Values we figure out in Finalize, for the rest of the pipeline
	method        AlignmentMethod
	mode          ExecMode
}

func NewConfig() Config {
	return Config{
		Method:        "xcorr",
		Mode:          "serial",
		SelectionFrac: 1.0,
		SubPixel:      true,
		CorrMargin:    25,
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	if contents,err := ioutil.ReadFile(filename); err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal([]byte(contents), &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, c.Finalize()
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("can't marshal config: %v", err)
	}
	return string(b)
}

// Finalize does sanity checks and resolves the string-keyed choices
// into their closed variants.
func (c *Config)Finalize() error {
	var err error
	if c.method, err = ParseAlignmentMethod(c.Method); err != nil {
		return err
	}
	if c.mode, err = ParseExecMode(c.Mode); err != nil {
		return err
	}

	if c.SelectionFrac <= 0.0 || c.SelectionFrac > 1.0 {
		return fmt.Errorf("%w: selection fraction %f not in (0,1]", ErrInvalidConfig, c.SelectionFrac)
	}
	if c.CorrMargin < 0 {
		return fmt.Errorf("%w: negative correlation margin %d", ErrInvalidConfig, c.CorrMargin)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidConfig, c.MaxFrames)
	}

	return nil
}
