package templates

import (
	"bytes"
	"fmt"
	"text/template"
)

var defaultRegistry = NewTemplateRegistry()

// Render executes the named template from the default registry
func Render(name string, data interface{}) (string, error) {
	templateStr, ok := defaultRegistry.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown template %s", name)
	}
	return executeTemplate(name, templateStr, data)
}

// GenerateWrapper renders one wrapper function
func GenerateWrapper(data WrapperData) (string, error) {
	return Render(WrapperTemplate, data)
}

// GenerateModuleEntry renders one module entry point with its init
// function and loader registration
func GenerateModuleEntry(data ModuleData) (string, error) {
	return Render(ModuleEntryTemplate, data)
}

// GenerateFile renders the complete generated file
func GenerateFile(data FileData) (string, error) {
	return Render(FileTemplate, data)
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
