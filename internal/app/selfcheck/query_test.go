package selfcheck_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/app/selfcheck"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/check"
	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain/signal"
	"github.com/jsamuelsen11/vehicle-selfcheck/mocks"
)

func TestAwaitValue_ReturnsSample(t *testing.T) {
	t.Parallel()

	want, _ := signal.NewSample("mavros/imu/data", time.Now(), signal.Imu{})
	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitValue(mock.Anything, "mavros/imu/data").Return(want, nil)

	got, err := selfcheck.AwaitValue(context.Background(), src, "mavros/imu/data", time.Second)
	if err != nil {
		t.Fatalf("AwaitValue() error = %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("AwaitValue().ID = %q, want %q", got.ID, want.ID)
	}
}

func TestAwaitValue_PassesDeadlineToSource(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitValue(mock.Anything, "mavros/state").
		RunAndReturn(func(ctx context.Context, _ string) (signal.Sample, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				t.Error("source context has no deadline")
			} else if remaining := time.Until(deadline); remaining > 3*time.Second {
				t.Errorf("remaining = %v, want <= 3s", remaining)
			}
			return signal.Sample{ID: "mavros/state"}, nil
		})

	if _, err := selfcheck.AwaitValue(context.Background(), src, "mavros/state", 3*time.Second); err != nil {
		t.Fatalf("AwaitValue() error = %v", err)
	}
}

func TestAwaitValue_SourceHonorsDeadline(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitValue(mock.Anything, "mavros/imu/data").
		RunAndReturn(func(ctx context.Context, _ string) (signal.Sample, error) {
			<-ctx.Done()
			return signal.Sample{}, ctx.Err()
		})

	_, err := selfcheck.AwaitValue(context.Background(), src, "mavros/imu/data", 20*time.Millisecond)
	if !errors.Is(err, signal.ErrTimeout) {
		t.Errorf("AwaitValue() error = %v, want ErrTimeout", err)
	}
}

func TestAwaitValue_BoundedWhenSourceIgnoresContext(t *testing.T) {
	t.Parallel()

	src := newBlockingSource()
	t.Cleanup(src.Close)

	const timeout = 50 * time.Millisecond
	start := time.Now()

	_, err := selfcheck.AwaitValue(context.Background(), src, "mavros/imu/data", timeout)

	if elapsed := time.Since(start); elapsed > timeout+200*time.Millisecond {
		t.Errorf("AwaitValue() took %v, want about %v", elapsed, timeout)
	}
	if !errors.Is(err, signal.ErrTimeout) {
		t.Errorf("AwaitValue() error = %v, want ErrTimeout", err)
	}
}

func TestAwaitValue_SourceError(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitValue(mock.Anything, "mavros/state").Return(signal.Sample{}, signal.ErrNoSignal)

	_, err := selfcheck.AwaitValue(context.Background(), src, "mavros/state", time.Second)
	if !errors.Is(err, signal.ErrNoSignal) {
		t.Errorf("AwaitValue() error = %v, want ErrNoSignal", err)
	}
}

func TestAwaitValue_ParentCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := newBlockingSource()
	t.Cleanup(src.Close)

	_, err := selfcheck.AwaitValue(ctx, src, "mavros/state", time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("AwaitValue() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, signal.ErrTimeout) {
		t.Error("AwaitValue() error wraps ErrTimeout, want cancellation only")
	}
}

func TestAwaitService_BoundedWhenSourceIgnoresContext(t *testing.T) {
	t.Parallel()

	src := newBlockingSource()
	t.Cleanup(src.Close)

	err := selfcheck.AwaitService(context.Background(), src, "navigate", 30*time.Millisecond)
	if !errors.Is(err, signal.ErrTimeout) {
		t.Errorf("AwaitService() error = %v, want ErrTimeout", err)
	}
}

func TestExpectValue_RecordsOneFailure(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitValue(mock.Anything, "main_camera/image_raw").
		Return(signal.Sample{}, signal.ErrNoSignal).Once()

	buf := selfcheck.NewBuffer()
	_, ok := selfcheck.ExpectValuef(context.Background(), buf, src, "main_camera/image_raw", time.Second,
		"No %s camera images", "main_camera")

	if ok {
		t.Fatal("ExpectValuef() ok = true, want false")
	}
	got := buf.Failures()
	if len(got) != 1 {
		t.Fatalf("len(Failures()) = %d, want 1", len(got))
	}
	if got[0].Message != "No main_camera camera images" {
		t.Errorf("Message = %q, want %q", got[0].Message, "No main_camera camera images")
	}
	if got[0].Cause != check.CauseAbsent {
		t.Errorf("Cause = %v, want %v", got[0].Cause, check.CauseAbsent)
	}
	if !errors.Is(got[0].Err, signal.ErrNoSignal) {
		t.Errorf("Err = %v, want ErrNoSignal", got[0].Err)
	}
}

func TestExpectValue_CanceledMessage(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitValue(mock.Anything, "mavros/state").
		RunAndReturn(func(ctx context.Context, _ string) (signal.Sample, error) {
			cancel()
			<-ctx.Done()
			return signal.Sample{}, ctx.Err()
		})

	buf := selfcheck.NewBuffer()
	_, ok := selfcheck.ExpectValue(ctx, buf, src, "mavros/state", time.Second, "No MAVROS state")

	if ok {
		t.Fatal("ExpectValue() ok = true, want false")
	}
	got := buf.Failures()
	if len(got) != 1 {
		t.Fatalf("len(Failures()) = %d, want 1", len(got))
	}
	if got[0].Message != "Check canceled while waiting for mavros/state" {
		t.Errorf("Message = %q", got[0].Message)
	}
	if got[0].Cause != check.CauseCanceled {
		t.Errorf("Cause = %v, want %v", got[0].Cause, check.CauseCanceled)
	}
}

func TestExpectService_Offered(t *testing.T) {
	t.Parallel()

	src := mocks.NewMockSignalSource(t)
	src.EXPECT().AwaitService(mock.Anything, "land").Return(nil)

	buf := selfcheck.NewBuffer()
	if !selfcheck.ExpectService(context.Background(), buf, src, "land", time.Second, "No simple_offboard services") {
		t.Fatal("ExpectService() = false, want true")
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
}

func TestDecodeSample_Malformed(t *testing.T) {
	t.Parallel()

	buf := selfcheck.NewBuffer()
	s := signal.Sample{ID: "mavros/state", Data: []byte(`{"connected":`)}

	var st signal.State
	if selfcheck.DecodeSample(buf, s, &st) {
		t.Fatal("DecodeSample() = true, want false")
	}
	got := buf.Failures()
	if len(got) != 1 || got[0].Cause != check.CauseInvalid {
		t.Fatalf("Failures() = %+v, want one invalid failure", got)
	}
	if got[0].Message != "Malformed mavros/state sample" {
		t.Errorf("Message = %q", got[0].Message)
	}
}
