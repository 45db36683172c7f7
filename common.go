package hdlcore

import "context"

// runBuildSteps executes the prepare, compile and archive steps in order.
//
// If any step fails, processing stops, result.Error is set and the error is
// returned with Success=false. Subsequent steps are not executed.
func runBuildSteps(ctx context.Context, config *BuildConfig, steps buildSteps) (*BuildResult, error) {
	result := &BuildResult{
		Success: false,
		Output:  []string{},
	}

	for _, step := range []func(context.Context, *BuildConfig, *BuildResult) error{
		steps.PrepareFunc,
		steps.CompileFunc,
		steps.ArchiveFunc,
	} {
		if step == nil {
			continue
		}
		if err := step(ctx, config, result); err != nil {
			result.Error = err
			return result, err
		}
	}

	result.Success = true
	return result, nil
}
