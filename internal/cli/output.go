package cli

import "github.com/mrodal/inmomatch/internal/output"

// outputData renders data in the format selected by the global flag
func outputData(data interface{}) error {
	return output.Output(outputFmt, data)
}
