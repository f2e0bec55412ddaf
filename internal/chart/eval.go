package chart

import "encoding/json"

// All DOM access runs through JS wrapped in an IIFE that returns a JSON
// envelope {ok, data, error_code, error_message}. The Go side never parses
// free-form evaluation results.

const jsButtonHelper = `
function _buttons() { return Array.prototype.slice.call(document.querySelectorAll("button")); }
function _label(el) { return String(el.textContent || "").trim(); }
function _findButton(label) {
  var all = _buttons();
  var exact = null; var partial = null; var matches = 0;
  for (var i = 0; i < all.length; i++) {
    var t = _label(all[i]);
    if (t === label) { matches++; if (!exact) exact = all[i]; }
    else if (t.indexOf(label) !== -1) { matches++; if (!partial) partial = all[i]; }
  }
  return {el: exact || partial, matches: matches, exact: !!exact};
}
`

// jsClickButton clicks the button whose text matches label. Exact text wins
// over substring so "RSI" does not land on "Stoch RSI".
func jsClickButton(label string) string {
	return wrapJSEval(jsButtonHelper + `
var found = _findButton(` + jsString(label) + `);
if (!found.el) {
  return JSON.stringify({ok:false,error_code:"` + CodeElementNotFound + `",error_message:"no button matching " + ` + jsString(label) + `});
}
found.el.click();
return JSON.stringify({ok:true,data:{label:` + jsString(label) + `,text:_label(found.el),matches:found.matches,exact:found.exact}});`)
}

// jsButtonPresent reports whether a button matching label exists yet.
func jsButtonPresent(label string) string {
	return wrapJSEval(jsButtonHelper + `
var found = _findButton(` + jsString(label) + `);
return JSON.stringify({ok:true,data:{present:!!found.el}});`)
}

// jsPageReady reports document readiness plus the presence of any button,
// which is the earliest point the menu can be driven.
func jsPageReady() string {
	return wrapJSEval(`
var ready = document.readyState === "complete" && document.querySelectorAll("button").length > 0;
return JSON.stringify({ok:true,data:{ready:ready}});`)
}

const jsSubchartSelector = `'[style*="height"][style*="border"]'`

// jsElementCounts tallies the chart-related DOM elements the debug flow
// inspects: text matches, chart-classed divs, recharts containers, subcharts.
func jsElementCounts(textMatch string) string {
	return wrapJSEval(`
function _textCount(needle) {
  var walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
  var n = 0;
  while (walker.nextNode()) {
    if (String(walker.currentNode.nodeValue || "").indexOf(needle) !== -1) n++;
  }
  return n;
}
return JSON.stringify({ok:true,data:{
  text_matches: _textCount(` + jsString(textMatch) + `),
  chart_classed: document.querySelectorAll('[class*="chart"]').length,
  recharts_wrappers: document.querySelectorAll('.recharts-wrapper').length,
  responsive_containers: document.querySelectorAll('.recharts-responsive-container').length,
  subcharts: document.querySelectorAll(` + jsSubchartSelector + `).length
}});`)
}

// jsPageContains checks the rendered HTML for a case-insensitive substring.
func jsPageContains(needle string) string {
	return wrapJSEval(`
var html = document.documentElement.outerHTML.toLowerCase();
return JSON.stringify({ok:true,data:{found: html.indexOf(` + jsString(needle) + `.toLowerCase()) !== -1}});`)
}

// jsMeasureLayout collects the window, document, chart-container, and
// per-subchart height measurements.
func jsMeasureLayout() string {
	return wrapJSEval(`
var container = document.querySelector('[class*="chart"]');
var subcharts = [];
var nodes = document.querySelectorAll(` + jsSubchartSelector + `);
for (var i = 0; i < nodes.length; i++) {
  subcharts.push({index:i, offset_height:nodes[i].offsetHeight, style:String(nodes[i].getAttribute("style") || "")});
}
return JSON.stringify({ok:true,data:{
  window_inner_height: window.innerHeight,
  document_scroll_height: document.body.scrollHeight,
  container_height: container ? container.offsetHeight : 0,
  container_style: container ? String(container.getAttribute("style") || "") : "",
  subcharts: subcharts
}});`)
}

func jsString(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func wrapJSEval(body string) string {
	return "(function(){\ntry {\n" + body + `
} catch (err) {
return JSON.stringify({ok:false,error_code:"` + CodeEvalFailure + `",error_message:String(err && err.message || err)});
}
})()`
}
