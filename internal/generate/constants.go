package generate

// blockFrames is the unit of work between cancellation checks, and the
// shard size handed to each goroutine by RenderParallel.
const blockFrames = 4096
