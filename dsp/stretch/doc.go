// Package stretch provides naive, non-pitch-synchronous pitch and time
// modification. The results carry the usual resampling and phasing
// artefacts; they serve as baselines next to dsp/psola.
package stretch
