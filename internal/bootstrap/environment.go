package bootstrap

import (
	"path/filepath"
	"strings"

	"github.com/editkit/resolve-otio/internal/execshell"
	"github.com/editkit/resolve-otio/internal/resolve"
)

const (
	windowsOperatingSystemConstant = "windows"
	darwinOperatingSystemConstant  = "darwin"
	linuxOperatingSystemConstant   = "linux"

	scriptAPIEnvironmentVariableConstant    = "RESOLVE_SCRIPT_API"
	scriptLibEnvironmentVariableConstant    = "RESOLVE_SCRIPT_LIB"
	moduleSearchEnvironmentVariableConstant = "PYTHONPATH"

	modulesDirectoryNameConstant = "Modules"

	windowsProgramDataFallbackConstant  = "C:\\ProgramData"
	windowsProgramFilesFallbackConstant = "C:\\Program Files"

	darwinScriptAPIPathConstant = "/Library/Application Support/Blackmagic Design/DaVinci Resolve/Developer/Scripting"
	darwinScriptLibPathConstant = "/Applications/DaVinci Resolve/DaVinci Resolve.app/Contents/Libraries/Fusion/fusionscript.so"
	linuxScriptAPIPathConstant  = "/opt/resolve/Developer/Scripting"
	linuxScriptLibPathConstant  = "/opt/resolve/libs/Fusion/fusionscript.so"
)

var windowsScriptAPIPathSegments = []string{"Blackmagic Design", "DaVinci Resolve", "Support", "Developer", "Scripting"}

var windowsScriptLibPathSegments = []string{"Blackmagic Design", "DaVinci Resolve", "fusionscript.dll"}

// HostDirectories exposes the Windows installation roots normally read from the process environment.
type HostDirectories struct {
	ProgramData  string
	ProgramFiles string
}

// LayoutOverrides carries user configuration that replaces detected vendor paths.
type LayoutOverrides struct {
	ScriptAPIPath     string
	ScriptLibPath     string
	PythonInterpreter string
}

// BridgeEnvironment describes everything required to launch the vendor scripting bridge.
type BridgeEnvironment struct {
	ScriptAPIPath     string
	ScriptLibPath     string
	ModulesPath       string
	PythonInterpreter execshell.InterpreterName
}

// DetectEnvironment resolves the vendor installation layout for the supplied operating system.
//
// The returned environment is a plain value handed to the child process; the
// caller's process environment is never mutated.
func DetectEnvironment(operatingSystem string, hostDirectories HostDirectories, overrides LayoutOverrides) (BridgeEnvironment, error) {
	var scriptAPIPath string
	var scriptLibPath string

	switch operatingSystem {
	case windowsOperatingSystemConstant:
		programDataRoot := valueOrFallback(hostDirectories.ProgramData, windowsProgramDataFallbackConstant)
		programFilesRoot := valueOrFallback(hostDirectories.ProgramFiles, windowsProgramFilesFallbackConstant)
		scriptAPIPath = filepath.Join(append([]string{programDataRoot}, windowsScriptAPIPathSegments...)...)
		scriptLibPath = filepath.Join(append([]string{programFilesRoot}, windowsScriptLibPathSegments...)...)
	case darwinOperatingSystemConstant:
		scriptAPIPath = darwinScriptAPIPathConstant
		scriptLibPath = darwinScriptLibPathConstant
	case linuxOperatingSystemConstant:
		scriptAPIPath = linuxScriptAPIPathConstant
		scriptLibPath = linuxScriptLibPathConstant
	default:
		return BridgeEnvironment{}, resolve.NewEnvironmentUnsupportedError(operatingSystem)
	}

	if len(strings.TrimSpace(overrides.ScriptAPIPath)) > 0 {
		scriptAPIPath = strings.TrimSpace(overrides.ScriptAPIPath)
	}
	if len(strings.TrimSpace(overrides.ScriptLibPath)) > 0 {
		scriptLibPath = strings.TrimSpace(overrides.ScriptLibPath)
	}

	pythonInterpreter := execshell.DefaultPythonInterpreter
	if len(strings.TrimSpace(overrides.PythonInterpreter)) > 0 {
		pythonInterpreter = execshell.InterpreterName(strings.TrimSpace(overrides.PythonInterpreter))
	}

	bridgeEnvironment := BridgeEnvironment{
		ScriptAPIPath:     scriptAPIPath,
		ScriptLibPath:     scriptLibPath,
		ModulesPath:       filepath.Join(scriptAPIPath, modulesDirectoryNameConstant),
		PythonInterpreter: pythonInterpreter,
	}

	return bridgeEnvironment, nil
}

// EnvironmentVariables builds the variable map placed on the bridge process.
//
// existingModuleSearchPath preserves any module search path already configured
// for the interpreter; the vendor modules directory is prepended to it.
func (environment BridgeEnvironment) EnvironmentVariables(existingModuleSearchPath string) map[string]string {
	moduleSearchPath := environment.ModulesPath
	if len(existingModuleSearchPath) > 0 {
		moduleSearchPath = environment.ModulesPath + string(filepath.ListSeparator) + existingModuleSearchPath
	}

	return map[string]string{
		scriptAPIEnvironmentVariableConstant:    environment.ScriptAPIPath,
		scriptLibEnvironmentVariableConstant:    environment.ScriptLibPath,
		moduleSearchEnvironmentVariableConstant: moduleSearchPath,
	}
}

func valueOrFallback(candidateValue string, fallbackValue string) string {
	if len(strings.TrimSpace(candidateValue)) > 0 {
		return candidateValue
	}
	return fallbackValue
}
