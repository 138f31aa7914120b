package main

// Compiled-in modules.
import (
	_ "github.com/louis49/androidtv-remote/internal/gateway"
	_ "github.com/louis49/androidtv-remote/modules/androidtv/remote"
	_ "github.com/louis49/androidtv-remote/modules/scheduler"
)
