package segment

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/imaging"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initORT initializes the onnxruntime environment exactly once. The
// environment stays alive for the process; sessions come and go.
func initORT() error {
	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// SetRuntimeLibrary points onnxruntime_go at a specific shared library.
// Must be called before the first engine is created; the default search
// behavior is used otherwise.
func SetRuntimeLibrary(path string) {
	ort.SetSharedLibraryPath(path)
}

var errSessionClosed = errors.New("session closed")

// ortSession wraps one onnxruntime session for a single model. A session
// runs one inference at a time; the pool hands sessions to workers.
type ortSession struct {
	mu     sync.Mutex
	sess   *ort.DynamicAdvancedSession
	spec   ModelSpec
	closed bool
}

func newORTSession(modelPath string, spec ModelSpec, threads int) (*ortSession, error) {
	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing onnx runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("reading model metadata: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model %s declares no inputs or outputs", spec.Name)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer opts.Destroy()
	if threads > 0 {
		if err := opts.SetIntraOpNumThreads(threads); err != nil {
			return nil, fmt.Errorf("setting intra-op threads: %w", err)
		}
		if err := opts.SetInterOpNumThreads(threads); err != nil {
			return nil, fmt.Errorf("setting inter-op threads: %w", err)
		}
	}

	sess, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("creating session for %s: %w", spec.Name, err)
	}

	return &ortSession{sess: sess, spec: spec}, nil
}

// infer runs the model on img and returns the raw mask at model resolution,
// Side x Side. The caller scales it back to the source dimensions.
func (s *ortSession) infer(ctx context.Context, img image.Image) (*image.Gray, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionClosed
	}

	side := s.spec.Side
	input := preprocess(img, s.spec)

	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, int64(side), int64(side)), input)
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := s.sess.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("running %s: %w", s.spec.Name, err)
	}
	if outputs[0] == nil {
		return nil, fmt.Errorf("model %s produced no output", s.spec.Name)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("model %s produced unexpected output type %T", s.spec.Name, outputs[0])
	}
	data := out.GetData()
	if len(data) < side*side {
		return nil, fmt.Errorf("model %s output has %d values, want at least %d", s.spec.Name, len(data), side*side)
	}

	return postprocess(data[:side*side], side), nil
}

func (s *ortSession) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.sess != nil {
		return s.sess.Destroy()
	}
	return nil
}

// preprocess stretches img to the model's square input and lays it out as a
// normalized CHW float32 plane stack.
func preprocess(img image.Image, spec ModelSpec) []float32 {
	side := spec.Side
	scaled := imaging.ToNRGBA(imaging.ResizeExact(img, side, side))

	plane := side * side
	data := make([]float32, 3*plane)
	i := 0
	for y := 0; y < side; y++ {
		row := scaled.Pix[y*scaled.Stride : y*scaled.Stride+side*4]
		for x := 0; x < side; x++ {
			r := float32(row[x*4]) / 255
			g := float32(row[x*4+1]) / 255
			b := float32(row[x*4+2]) / 255
			data[i] = (r - spec.Mean[0]) / spec.Std[0]
			data[plane+i] = (g - spec.Mean[1]) / spec.Std[1]
			data[2*plane+i] = (b - spec.Mean[2]) / spec.Std[2]
			i++
		}
	}
	return data
}

// postprocess min-max normalizes the model output into an 8-bit mask. The
// u2net family emits probabilities that rarely span the full range, so the
// stretch is what makes thresholds meaningful.
func postprocess(data []float32, side int) *image.Gray {
	lo := float32(math.Inf(1))
	hi := float32(math.Inf(-1))
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	mask := image.NewGray(image.Rect(0, 0, side, side))
	if hi <= lo {
		return mask
	}
	span := hi - lo
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			v := (data[y*side+x] - lo) / span
			mask.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return mask
}
