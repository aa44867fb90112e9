// Package embedded registers every built-in scripture source handler.
// Import it for its side effects:
//
//	import _ "github.com/FocuswithJustin/JuniperPractice/internal/embedded"
package embedded

import (
	_ "github.com/FocuswithJustin/JuniperPractice/internal/formats/osis"
	_ "github.com/FocuswithJustin/JuniperPractice/internal/formats/pipe"
)
