package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFastDetector() *Detector {
	d := NewDetector()
	d.SetSettle(time.Millisecond)
	return d
}

func TestInspectEmptyCode(t *testing.T) {
	d := newFastDetector()

	assert.Nil(t, d.Inspect(t.Context(), ""))
	assert.Nil(t, d.Inspect(t.Context(), "   \n\t"))
}

func TestInspectCleanPage(t *testing.T) {
	d := newFastDetector()
	page := `<html><body><h1>hi</h1><script>var x = 1 + 1;</script></body></html>`

	assert.Nil(t, d.Inspect(t.Context(), page))
}

func TestInspectReportsThrownError(t *testing.T) {
	d := newFastDetector()
	page := `<html><body><script>undefinedFunction();</script></body></html>`

	res := d.Inspect(t.Context(), page)

	require.NotNil(t, res)
	assert.Contains(t, res.Message, "undefinedFunction")
}

func TestInspectReportsConsoleError(t *testing.T) {
	d := newFastDetector()
	page := `<html><body><script>console.error("payment widget failed");</script></body></html>`

	res := d.Inspect(t.Context(), page)

	require.NotNil(t, res)
	assert.Equal(t, "payment widget failed", res.Message)
}

func TestInspectSyntaxFaultWinsOverRuntimeFault(t *testing.T) {
	d := newFastDetector()
	page := `<html><body>
<script>undefinedFunction();</script>
<script>function broken( {</script>
</body></html>`

	res := d.Inspect(t.Context(), page)

	require.NotNil(t, res)
	assert.Contains(t, res.Message, "Syntax error")
}

func TestInspectSkipsExternalScripts(t *testing.T) {
	d := newFastDetector()
	page := `<html><body><script src="https://cdn.example.com/lib.js"></script></body></html>`

	assert.Nil(t, d.Inspect(t.Context(), page))
}

func TestInspectLastFaultWins(t *testing.T) {
	d := newFastDetector()
	page := `<html><body>
<script>console.error("first fault");</script>
<script>console.error("second fault");</script>
</body></html>`

	res := d.Inspect(t.Context(), page)

	require.NotNil(t, res)
	assert.Equal(t, "second fault", res.Message)
}

func TestInspectToleratesDOMAccess(t *testing.T) {
	d := newFastDetector()
	page := `<html><body><div id="app"></div><script>
var el = document.getElementById("app");
el.addEventListener("click", function() {});
el.innerHTML = "<p>ok</p>";
</script></body></html>`

	assert.Nil(t, d.Inspect(t.Context(), page))
}

func TestInspectInfiniteLoopIsNotAFault(t *testing.T) {
	d := newFastDetector()
	page := `<html><body><script>while(true){}</script></body></html>`

	assert.Nil(t, d.Inspect(t.Context(), page))
}
