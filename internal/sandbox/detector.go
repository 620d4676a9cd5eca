package sandbox

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// DefaultSettle is how long execution faults are given to surface before a
// check concludes.
const DefaultSettle = 100 * time.Millisecond

// DefaultRunLimit bounds how long each inline script may execute.
const DefaultRunLimit = 500 * time.Millisecond

// Result reports a single detected fault. Later faults overwrite earlier
// ones within one check; parse faults take precedence over runtime faults.
type Result struct {
	Message string `json:"message"`
}

// Detector runs the inline scripts of a generated page through a headless
// JavaScript engine and reports console errors, thrown exceptions, and
// syntax faults. One check runs at a time.
type Detector struct {
	mu       sync.Mutex
	settle   time.Duration
	runLimit time.Duration
}

func NewDetector() *Detector {
	return &Detector{settle: DefaultSettle, runLimit: DefaultRunLimit}
}

// SetSettle overrides the post-run settle window. Used by tests.
func (d *Detector) SetSettle(settle time.Duration) {
	d.mu.Lock()
	d.settle = settle
	d.mu.Unlock()
}

// Inspect scans the page for faults. Returns nil when the code is empty or no
// fault was found.
func (d *Detector) Inspect(ctx context.Context, code string) *Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.TrimSpace(code) == "" {
		return nil
	}

	scripts := inlineScripts(code)

	var lastFault string
	for _, src := range scripts {
		if msg, ok := runScript(src, d.runLimit); !ok {
			lastFault = msg
		}
	}

	// Parse faults win over runtime faults, matching how a browser reports
	// a script that never ran.
	for _, src := range scripts {
		if _, err := goja.Compile("inline", src, false); err != nil {
			lastFault = "Syntax error: " + err.Error()
		}
	}

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(d.settle):
	}

	if lastFault == "" {
		return nil
	}
	return &Result{Message: lastFault}
}

// runScript executes one inline script with console stubs installed.
// Returns the fault message and false when the script errored.
func runScript(src string, limit time.Duration) (string, bool) {
	vm := goja.New()

	var consoleFault string
	console := vm.NewObject()
	_ = console.Set("error", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}
		consoleFault = strings.Join(parts, " ")
		return goja.Undefined()
	})
	noop := func(call goja.FunctionCall) goja.Value { return goja.Undefined() }
	_ = console.Set("log", noop)
	_ = console.Set("warn", noop)
	_ = console.Set("info", noop)
	_ = vm.Set("console", console)

	// Pages call into browser APIs the engine does not provide. Stub the
	// common entry points so scripts reach their own logic.
	stubBrowserGlobals(vm)

	timer := time.AfterFunc(limit, func() {
		vm.Interrupt("script execution timed out")
	})
	defer timer.Stop()

	_, err := vm.RunString(src)
	if err != nil {
		if _, interrupted := err.(*goja.InterruptedError); interrupted {
			// A long-running script is not a code fault.
			return "", true
		}
		return faultMessage(err), false
	}
	if consoleFault != "" {
		return consoleFault, false
	}
	return "", true
}

func faultMessage(err error) string {
	if ex, ok := err.(*goja.Exception); ok {
		return ex.Value().String()
	}
	return err.Error()
}

// stubBrowserGlobals installs inert document/window objects so DOM access
// does not drown out real faults.
func stubBrowserGlobals(vm *goja.Runtime) {
	const shim = `
var __el = function() {
	var el = {
		style: {}, dataset: {}, classList: {add: function(){}, remove: function(){}, toggle: function(){}, contains: function(){ return false; }},
		addEventListener: function(){}, removeEventListener: function(){},
		appendChild: function(c){ return c; }, removeChild: function(c){ return c; },
		setAttribute: function(){}, getAttribute: function(){ return null; },
		querySelector: function(){ return __el(); }, querySelectorAll: function(){ return []; },
		getContext: function(){ return {fillRect: function(){}, clearRect: function(){}, beginPath: function(){}, arc: function(){}, fill: function(){}, stroke: function(){}, moveTo: function(){}, lineTo: function(){}, save: function(){}, restore: function(){}, translate: function(){}, rotate: function(){}, drawImage: function(){}, fillText: function(){}, measureText: function(){ return {width: 0}; }}; },
		innerHTML: '', textContent: '', value: '', children: [], focus: function(){}, blur: function(){}, click: function(){}
	};
	return el;
};
var document = {
	getElementById: function(){ return __el(); },
	querySelector: function(){ return __el(); },
	querySelectorAll: function(){ return []; },
	createElement: function(){ return __el(); },
	addEventListener: function(){},
	body: __el(), documentElement: __el(), head: __el()
};
var window = this;
window.document = document;
window.addEventListener = function(){};
window.removeEventListener = function(){};
window.requestAnimationFrame = function(){ return 0; };
window.cancelAnimationFrame = function(){};
window.localStorage = {getItem: function(){ return null; }, setItem: function(){}, removeItem: function(){}, clear: function(){}};
var localStorage = window.localStorage;
var navigator = {userAgent: 'sitesmith-detector'};
var setTimeout = function(){ return 0; };
var setInterval = function(){ return 0; };
var clearTimeout = function(){};
var clearInterval = function(){};
var requestAnimationFrame = window.requestAnimationFrame;
var cancelAnimationFrame = window.cancelAnimationFrame;
var alert = function(){};
var fetch = function(){ return {then: function(){ return this; }, catch: function(){ return this; }}; };
`
	_, _ = vm.RunString(shim)
}

// inlineScripts extracts the bodies of <script> elements without a src
// attribute, in document order.
func inlineScripts(code string) []string {
	var scripts []string
	tokenizer := html.NewTokenizer(strings.NewReader(code))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return scripts
		}
		if tt != html.StartTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "script" {
			continue
		}
		external := false
		for _, attr := range token.Attr {
			if attr.Key == "src" && attr.Val != "" {
				external = true
				break
			}
		}
		if tokenizer.Next() == html.TextToken {
			body := strings.TrimSpace(string(tokenizer.Text()))
			if body != "" && !external {
				scripts = append(scripts, body)
			}
		}
	}
}
