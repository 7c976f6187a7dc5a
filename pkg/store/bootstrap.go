// SPDX-License-Identifier: MPL-2.0

package store

import "assetforge/pkg/asset"

// Bootstrap asset names. Every Store pre-registers these three at
// construction; sessions prepend them to the first document in fixed order.
const (
	// ResetStyleName is the style reset applied before any app styles.
	ResetStyleName = "reset.css"
	// LoaderName is the module loader that installs forge.define/require.
	LoaderName = "forge-loader.js"
	// SupportName is the standard-library support module available to every
	// generated module.
	SupportName = "forge-support.js"
)

// loaderJS installs the module loader. Modules are invoked immediately on
// define so the engine is ready to execute pushed commands right after the
// document loads, and redefinition is allowed so a live session can replace
// a module. The loader itself is wrapped in an IIFE to keep its module table
// private. Modules follow: define(name, depNames, function (dep1, ...) {...})
const loaderJS = `/* assetforge module loader. */
(function(){

if (typeof window === 'undefined' && typeof module == 'object') {
    global.window = global;
    window.is_node = true;
}
if (typeof forge == 'undefined') {
    window.forge = {};
}

var modules = {};
function define (name, deps, factory) {
    if (arguments.length == 1) {
        factory = name;
        deps = [];
        name = null;
    }
    if (arguments.length == 2) {
        factory = deps;
        deps = name;
        name = null;
    }
    var dep_vals = [];
    for (var i=0; i<deps.length; i++) {
        if (modules[deps[i]] === undefined) {
            throw Error('Unknown dependency: ' + deps[i]);
        }
        dep_vals.push(modules[deps[i]]);
    }
    var mod = factory.apply(null, dep_vals);
    if (name) {
        modules[name] = mod;
    }
}
define.amd = true;
define.forge = true;

function require (name) {
    return modules[name];
}

window.forge.define = define;
window.forge.require = require;
window.forge._modules = modules;

})();
`

// supportJS is the standard-library support module. Kept intentionally small:
// helpers the generated module wrappers rely on.
const supportJS = `forge.define("forge-support.js", [], function () {
function has_prop (ob, name) { return Object.prototype.hasOwnProperty.call(ob, name); }
function merge (target, source) {
    for (var key in source) { if (has_prop(source, key)) { target[key] = source[key]; } }
    return target;
}
function keys (ob) {
    var out = [];
    for (var key in ob) { if (has_prop(ob, key)) { out.push(key); } }
    return out;
}
return {has_prop: has_prop, merge: merge, keys: keys};
});
`

// resetCSS is a minimal normalize-style reset applied before app styles.
const resetCSS = `html
{font-family:sans-serif;-ms-text-size-adjust:100%;-webkit-text-size-adjust:100%}
body{margin:0}
article,aside,details,figcaption,figure,footer,header,hgroup,main,menu,nav,
section,summary{display:block}
audio,canvas,progress,video{display:inline-block;vertical-align:baseline}
[hidden],template{display:none}
a{background-color:transparent}
b,strong{font-weight:bold}
h1{font-size:2em;margin:.67em 0}
img{border:0}
svg:not(:root){overflow:hidden}
hr{box-sizing:content-box;height:0}
pre{overflow:auto}
code,kbd,pre,samp{font-family:monospace,monospace;font-size:1em}
button,input,optgroup,select,textarea{color:inherit;font:inherit;margin:0}
table{border-collapse:collapse;border-spacing:0}
td,th{padding:0}
`

// bootstrapAssets builds the three pre-registered assets. The loader and
// reset are raw text; the support module is already in loader form.
func bootstrapAssets() []*asset.Asset {
	return []*asset.Asset{
		asset.MustNew(ResetStyleName, asset.Inline(resetCSS)),
		asset.MustNew(LoaderName, asset.Inline(loaderJS)),
		asset.MustNew(SupportName, asset.Inline(supportJS)),
	}
}
