package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clientdesk-backend/internal/config"
	"clientdesk-backend/internal/database"
	"clientdesk-backend/internal/database/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Simple structures that directly match DB schema
type IdentityData struct {
	Email            string `yaml:"email"`
	Password         string `yaml:"password"`
	FirstName        string `yaml:"first_name"`
	LastName         string `yaml:"last_name"`
	PlatformOperator bool   `yaml:"platform_operator"`
}

type OrganizationData struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type MembershipData struct {
	OrganizationName string `yaml:"organization_name"`
	Email            string `yaml:"email"`
	Role             string `yaml:"role"`
}

type ClientData struct {
	OrganizationName string `yaml:"organization_name"`
	CompanyName      string `yaml:"company_name"`
	ContactName      string `yaml:"contact_name,omitempty"`
	ContactEmail     string `yaml:"contact_email,omitempty"`
	Phone            string `yaml:"phone,omitempty"`
}

type ProjectData struct {
	OrganizationName string `yaml:"organization_name"`
	ClientName       string `yaml:"client_name"`
	Name             string `yaml:"name"`
	Description      string `yaml:"description,omitempty"`
	Status           string `yaml:"status,omitempty"`
}

// File structures
type IdentitiesFile struct {
	Identities []IdentityData `yaml:"identities"`
}

type OrganizationsFile struct {
	Organizations []OrganizationData `yaml:"organizations"`
}

type MembershipsFile struct {
	Memberships []MembershipData `yaml:"memberships"`
}

type ClientsFile struct {
	Clients []ClientData `yaml:"clients"`
}

type ProjectsFile struct {
	Projects []ProjectData `yaml:"projects"`
}

func main() {
	log.Println("Loading initial data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Load data from YAML files
	if err := loadDataFromYAMLFiles(db, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Initial data loaded successfully!")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Suppress verbose GORM logging during data loading
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	identities, err := loadIdentities(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load identities: %w", err)
	}

	organizations, err := loadOrganizations(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load organizations: %w", err)
	}

	memberships, err := loadMemberships(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load memberships: %w", err)
	}

	clients, err := loadClients(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load clients: %w", err)
	}

	projects, err := loadProjects(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}

	// Create identities first; everything else hangs off them or the orgs
	identityMap := make(map[string]*models.Identity)
	identityCreated := 0
	for _, identityData := range identities {
		identity, created, err := createIdentity(db, identityData)
		if err != nil {
			return fmt.Errorf("failed to create identity %s: %w", identityData.Email, err)
		}
		identityMap[identityData.Email] = identity
		if created {
			identityCreated++
		}
	}
	log.Printf("Identities: %d created, %d total", identityCreated, len(identities))

	orgMap := make(map[string]*models.Organization)
	orgCreated := 0
	for _, orgData := range organizations {
		org, created, err := createOrganization(db, orgData)
		if err != nil {
			return fmt.Errorf("failed to create organization %s: %w", orgData.Name, err)
		}
		orgMap[orgData.Name] = org
		if created {
			orgCreated++
		}
	}
	log.Printf("Organizations: %d created, %d total", orgCreated, len(organizations))

	membershipCreated := 0
	for _, membershipData := range memberships {
		_, created, err := createMembership(db, membershipData, orgMap, identityMap)
		if err != nil {
			return fmt.Errorf("failed to create membership %s in %s: %w",
				membershipData.Email, membershipData.OrganizationName, err)
		}
		if created {
			membershipCreated++
		}
	}
	log.Printf("Memberships: %d created, %d total", membershipCreated, len(memberships))

	clientMap := make(map[string]*models.Client)
	clientCreated := 0
	for _, clientData := range clients {
		client, created, err := createClient(db, clientData, orgMap)
		if err != nil {
			log.Printf("Warning: failed to create client %s: %v", clientData.CompanyName, err)
			continue
		}
		clientMap[clientData.CompanyName] = client
		if created {
			clientCreated++
		}
	}
	log.Printf("Clients: %d created, %d total", clientCreated, len(clients))

	projectCreated := 0
	for _, projectData := range projects {
		_, created, err := createProject(db, projectData, orgMap, clientMap)
		if err != nil {
			log.Printf("Warning: failed to create project %s: %v", projectData.Name, err)
			continue
		}
		if created {
			projectCreated++
		}
	}
	log.Printf("Projects: %d created, %d total", projectCreated, len(projects))

	return nil
}

func loadIdentities(dataDir string) ([]IdentityData, error) {
	var all []IdentityData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "identities") {
			var file IdentitiesFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			all = append(all, file.Identities...)
		}
		return nil
	})

	return all, err
}

func loadOrganizations(dataDir string) ([]OrganizationData, error) {
	var all []OrganizationData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "organizations") {
			var file OrganizationsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			all = append(all, file.Organizations...)
		}
		return nil
	})

	return all, err
}

func loadMemberships(dataDir string) ([]MembershipData, error) {
	var all []MembershipData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "memberships") {
			var file MembershipsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			all = append(all, file.Memberships...)
		}
		return nil
	})

	return all, err
}

func loadClients(dataDir string) ([]ClientData, error) {
	var all []ClientData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "clients") {
			var file ClientsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			all = append(all, file.Clients...)
		}
		return nil
	})

	return all, err
}

func loadProjects(dataDir string) ([]ProjectData, error) {
	var all []ProjectData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "projects") {
			var file ProjectsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			all = append(all, file.Projects...)
		}
		return nil
	})

	return all, err
}

func createIdentity(db *gorm.DB, identityData IdentityData) (*models.Identity, bool, error) {
	var identity models.Identity
	if err := db.Where("email = ?", identityData.Email).First(&identity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			hash, err := bcrypt.GenerateFromPassword([]byte(identityData.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, false, fmt.Errorf("failed to hash password: %w", err)
			}

			identity = models.Identity{
				Email:            identityData.Email,
				PasswordHash:     string(hash),
				FirstName:        identityData.FirstName,
				LastName:         identityData.LastName,
				PlatformOperator: identityData.PlatformOperator,
				// Seeded passwords are bootstrap credentials only
				RequiresPasswordReset: true,
			}

			if err := db.Create(&identity).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create identity: %w", err)
			}
			return &identity, true, nil
		}
		return nil, false, fmt.Errorf("failed to query identity: %w", err)
	}

	return &identity, false, nil
}

func createOrganization(db *gorm.DB, orgData OrganizationData) (*models.Organization, bool, error) {
	var org models.Organization
	if err := db.Where("name = ?", orgData.Name).First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			org = models.Organization{
				Name: orgData.Name,
				Slug: orgData.Slug,
			}

			if err := db.Create(&org).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create organization: %w", err)
			}
			return &org, true, nil
		}
		return nil, false, fmt.Errorf("failed to query organization: %w", err)
	}

	return &org, false, nil
}

func createMembership(db *gorm.DB, membershipData MembershipData, orgMap map[string]*models.Organization, identityMap map[string]*models.Identity) (*models.Membership, bool, error) {
	org := orgMap[membershipData.OrganizationName]
	if org == nil {
		return nil, false, fmt.Errorf("organization %s not found", membershipData.OrganizationName)
	}
	identity := identityMap[membershipData.Email]
	if identity == nil {
		return nil, false, fmt.Errorf("identity %s not found", membershipData.Email)
	}

	role := models.MembershipRole(membershipData.Role)
	if !role.IsValid() {
		return nil, false, fmt.Errorf("invalid role %q", membershipData.Role)
	}

	var membership models.Membership
	if err := db.Where("organization_id = ? AND identity_id = ?", org.ID, identity.ID).First(&membership).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			membership = models.Membership{
				OrganizationID: org.ID,
				IdentityID:     identity.ID,
				Role:           role,
			}

			if err := db.Create(&membership).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create membership: %w", err)
			}
			return &membership, true, nil
		}
		return nil, false, fmt.Errorf("failed to query membership: %w", err)
	}

	return &membership, false, nil
}

func createClient(db *gorm.DB, clientData ClientData, orgMap map[string]*models.Organization) (*models.Client, bool, error) {
	org := orgMap[clientData.OrganizationName]
	if org == nil {
		return nil, false, fmt.Errorf("organization %s not found for client %s", clientData.OrganizationName, clientData.CompanyName)
	}

	var client models.Client
	if err := db.Where("company_name = ? AND organization_id = ?", clientData.CompanyName, org.ID).First(&client).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			client = models.Client{
				OrganizationID: org.ID,
				CompanyName:    clientData.CompanyName,
				ContactName:    clientData.ContactName,
				ContactEmail:   clientData.ContactEmail,
				Phone:          clientData.Phone,
			}

			if err := db.Create(&client).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create client: %w", err)
			}
			return &client, true, nil
		}
		return nil, false, fmt.Errorf("failed to query client: %w", err)
	}

	return &client, false, nil
}

func createProject(db *gorm.DB, projectData ProjectData, orgMap map[string]*models.Organization, clientMap map[string]*models.Client) (*models.Project, bool, error) {
	org := orgMap[projectData.OrganizationName]
	if org == nil {
		return nil, false, fmt.Errorf("organization %s not found for project %s", projectData.OrganizationName, projectData.Name)
	}
	client := clientMap[projectData.ClientName]
	if client == nil {
		return nil, false, fmt.Errorf("client %s not found for project %s", projectData.ClientName, projectData.Name)
	}
	if client.OrganizationID != org.ID {
		return nil, false, fmt.Errorf("client %s belongs to a different organization than project %s", projectData.ClientName, projectData.Name)
	}

	status := models.ProjectStatusActive
	if projectData.Status != "" {
		status = models.ProjectStatus(projectData.Status)
		if !status.IsValid() {
			return nil, false, fmt.Errorf("invalid status %q", projectData.Status)
		}
	}

	var project models.Project
	if err := db.Where("name = ? AND organization_id = ?", projectData.Name, org.ID).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			project = models.Project{
				OrganizationID: org.ID,
				ClientID:       client.ID,
				Name:           projectData.Name,
				Description:    projectData.Description,
				Status:         status,
			}

			if err := db.Create(&project).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create project: %w", err)
			}
			return &project, true, nil
		}
		return nil, false, fmt.Errorf("failed to query project: %w", err)
	}

	return &project, false, nil
}
