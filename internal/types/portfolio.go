// Package types provides type definitions for structured data used throughout the portfolio generator.
package types

import (
	"github.com/go-playground/validator/v10"
)

// PersonalInfo holds the owner's contact details collected by the wizard.
type PersonalInfo struct {
	Name     string `json:"name" validate:"required,min=1"`
	Age      string `json:"age"`
	Location string `json:"location"`
	Email    string `json:"email" validate:"required,min=1"`
	Phone    string `json:"phone"`
}

// Education is one entry in the owner's education history. The ID is an
// opaque client-generated identifier.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartYear   string `json:"startYear"`
	EndYear     string `json:"endYear"`
	GPA         string `json:"gpa,omitempty"`
}

// Project is one showcased project with its technology tags.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	GithubURL    string   `json:"githubUrl,omitempty" validate:"omitempty,url"`
	LiveURL      string   `json:"liveUrl,omitempty" validate:"omitempty,url"`
	ImageURL     string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// Achievement is one award or recognition entry.
type Achievement struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Organization string `json:"organization,omitempty"`
}

// SocialLinks holds optional profile URLs.
type SocialLinks struct {
	Github   string `json:"github,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
	Other    string `json:"other,omitempty"`
}

// PortfolioData is the full form payload submitted by the wizard. It is
// immutable once handed to generation; a regeneration reuses the same value.
type PortfolioData struct {
	PersonalInfo PersonalInfo  `json:"personalInfo" validate:"required"`
	AboutMe      string        `json:"aboutMe"`
	Education    []Education   `json:"education" validate:"dive"`
	Projects     []Project     `json:"projects" validate:"dive"`
	Achievements []Achievement `json:"achievements" validate:"dive"`
	SocialLinks  SocialLinks   `json:"socialLinks"`
	GeneratedAt  string        `json:"generatedAt"`
}

// Validate validates the PortfolioData using the validator.
func (p *PortfolioData) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// SocialLinkCount returns the number of populated social links.
func (p *PortfolioData) SocialLinkCount() int {
	count := 0
	for _, link := range []string{
		p.SocialLinks.Github,
		p.SocialLinks.Linkedin,
		p.SocialLinks.Twitter,
		p.SocialLinks.Website,
		p.SocialLinks.Other,
	} {
		if link != "" {
			count++
		}
	}
	return count
}

// TechTagCount returns the total number of technology tags across projects.
func (p *PortfolioData) TechTagCount() int {
	count := 0
	for _, proj := range p.Projects {
		count += len(proj.Technologies)
	}
	return count
}
