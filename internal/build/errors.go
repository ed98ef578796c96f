package build

import "errors"

// Sentinel errors identifying the stage a build failed in.
var (
	ErrDiscovery = errors.New("docrender: discovery error")
	ErrToc       = errors.New("docrender: toc error")
	ErrRender    = errors.New("docrender: render error")
	ErrLinkCheck = errors.New("docrender: link check error")
)
