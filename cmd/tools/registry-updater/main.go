// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"loan-advisor-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Init command flags
	initPath := initCmd.String("path", defaultRegistryPath, "Path to write the registry file")
	force := initCmd.Bool("force", false, "Overwrite an existing registry file")

	// Add command flags
	addPath := addCmd.String("path", defaultRegistryPath, "Path to registry file")
	idAdd := addCmd.String("id", "", "Activity ID (e.g., fetch-credit-report)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Fetch Credit Report)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "loan", "Category")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., fetch-credit-report)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "10s", "Job timeout")

	// Update command flags
	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		initCmd.Parse(os.Args[2:])
		if err := initRegistry(*initPath, *force); err != nil {
			exitf("Error writing registry: %v", err)
		}
		fmt.Printf("Wrote default loan registry to %s\n", *initPath)

	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		activity := registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{"type": "object"},
			OutputSchema:         map[string]interface{}{"type": "object"},
			ErrorCodes:           []string{},
			Timeout:              *timeout,
			Workflows:            []string{},
			Tags:                 []string{},
		}
		if err := addActivity(*addPath, activity); err != nil {
			exitf("Error adding activity: %v", err)
		}
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			exitf("Error updating activity: %v", err)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			exitf("Registry validation failed: %v", err)
		}
		if err := reg.Validate(); err != nil {
			exitf("Registry validation failed: %v", err)
		}
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "help":
		fallthrough
	default:
		help()
	}
}

func initRegistry(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	return registry.DefaultRegistry().Save(path)
}

func addActivity(path string, activity registry.Activity) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{
			Version:     "1.0.0",
			LastUpdated: time.Now().Format(time.RFC3339),
			Activities:  []registry.Activity{},
		}
	}

	if err := reg.Add(activity); err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	return reg.Save(path)
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Update(id, field, value); err != nil {
		return err
	}
	return reg.Save(path)
}

func exitf(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  init     Write the built-in loan activity registry to a file
  add      Add a new activity to the registry
  update   Update an existing activity's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater init -path configs/activity-registry.json
  registry-updater add -id fetch-credit-report -displayName "Fetch Credit Report" -taskType fetch-credit-report
  registry-updater update -id compute-emi -field timeout -value 5s
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
