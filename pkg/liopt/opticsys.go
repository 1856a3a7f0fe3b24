// Package liopt holds static descriptors of the optical systems the
// simulator renders frames for - telescope, detector and sky. It's
// pure data assembly: the stacking pipeline treats these as opaque
// parameterization and never validates their physical content.
package liopt

import(
	"fmt"
	"io/ioutil"
	"log"
	"math"

	"gopkg.in/yaml.v2"
)

type Mirror struct {
	ROuterM float64
	RInnerM float64  // 0 for an unobstructed mirror
}

type Telescope struct {
	EflM    float64   // effective focal length; 0 means afocal, plate scale set downstream
	TdegK   float64
	Mirrors []Mirror  // M1 first
}

func (t *Telescope)AddMirror(m Mirror) {
	t.Mirrors = append(t.Mirrors, m)
}

// CollectingAreaM2 is the clear area of the primary annulus.
func (t Telescope)CollectingAreaM2() float64 {
	if len(t.Mirrors) == 0 {
		return 0.0
	}
	m1 := t.Mirrors[0]
	return math.Pi * (m1.ROuterM*m1.ROuterM - m1.RInnerM*m1.RInnerM)
}

type Detector struct {
	HeightPx    int
	WidthPx     int
	LPxM        float64  // pixel pitch (m)
	CutoffM     float64  // cutoff wavelength (m)
	RN          float64  // read noise, sqrt(e/pixel) rms
	Gain        float64  // EM gain
	CIC         float64  // clock-induced charge (e/pixel/frame)
	DarkCurrent float64  // e/second/pixel
	Saturation  int
	AduGain     float64  // electrons per ADU at readout
	QE          float64
	FPS         float64
}

type Sky struct {
	MagnitudeSystem string
	Brightness      map[string]float64  // per band
	TdegK           float64
	Emissivity      float64
}

type OpticalSystem struct {
	Telescope      Telescope
	Detector       Detector
	Sky            Sky
	PlateScaleAsPx float64
}

func (os OpticalSystem)String() string {
	return fmt.Sprintf("OpticalSystem[%dx%dpx, %.3f as/px, %.2fm2 aperture]",
		os.Detector.HeightPx, os.Detector.WidthPx, os.PlateScaleAsPx, os.Telescope.CollectingAreaM2())
}

// AOISystem is the ANU 2.3m-class lucky imaging rig we mostly care
// about: the EOS 1.8m telescope feeding a Nuvu EMCCD under the MSO sky.
func AOISystem() OpticalSystem {
	return OpticalSystem{
		Telescope:      EOS18mTelescope(),
		Detector:       NuvuDetector(),
		Sky:            MSOSky(),
		PlateScaleAsPx: 0.044,
	}
}

func EOS18mTelescope() Telescope {
	// The plate scale is determined by the optics just before the
	// imager, not by the telescope itself (which is afocal anyway)
	tel := Telescope{TdegK: 273 + 20}

	// M1
	tel.AddMirror(Mirror{ROuterM: 1.752 / 2, RInnerM: 0.250 / 2})

	// M2 through M7
	for k:=0; k<6; k++ {
		tel.AddMirror(Mirror{ROuterM: 0.250 / 2})
	}

	return tel
}

func NuvuDetector() Detector {
	return Detector{
		HeightPx:    512,
		WidthPx:     512,
		LPxM:        16e-6,
		CutoffM:     1.1e-6,
		RN:          0.1,
		Gain:        1000,
		CIC:         0.001,
		DarkCurrent: 0.0002,
		Saturation:  1<<16 - 1,
		AduGain:     1 / 2.9,
		QE:          0.9,
		FPS:         60,
	}
}

func MSOSky() Sky {
	return Sky{
		MagnitudeSystem: "AB",
		Brightness: map[string]float64{
			"J": 15,
			"H": 13.7,
			"K": 12.5,
		},
		TdegK: 273,
	}
}

func LoadOpticalSystem(filename string) (OpticalSystem, error) {
	os := AOISystem()

	if contents,err := ioutil.ReadFile(filename); err != nil {
		return os, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal([]byte(contents), &os); err != nil {
		return os, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return os, nil
}

func (os OpticalSystem)AsYaml() string {
	b, err := yaml.Marshal(os)
	if err != nil {
		log.Printf("can't marshal optical system yaml: %v\n", err)
		return ""
	}
	return string(b)
}
