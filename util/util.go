package util

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

var (
	Validator = validator.New()
)

func IsManaged(tags []types.Tag) bool {
	for _, tag := range tags {
		if *tag.Key == "managed-by" && *tag.Value == "cockpit-deploy" {
			return true
		}
	}

	return false
}

func IsTarget(tags []types.Tag, targetName string) bool {

	for _, tag := range tags {
		if *tag.Key == "cockpit-deploy:target" && *tag.Value == targetName {
			return true
		}
	}

	// empty target name matches any managed target
	if IsManaged(tags) && targetName == "" {
		return true
	}

	return false
}

func GetTag(tags []types.Tag, key string) string {
	for _, tag := range tags {
		if *tag.Key == key {
			return *tag.Value
		}
	}

	return ""
}

func loadFile(filename string) ([]byte, error) {
	// check if location is a url
	if strings.HasPrefix(filename, "http") {
		return downloadFrom(filename)
	}

	return os.ReadFile(filename)
}

func downloadFrom(filename string) ([]byte, error) {
	// Get the data
	resp, err := http.Get(filename)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	// Read the data
	return io.ReadAll(resp.Body)
}

func RetrieveFile(filename string) (string, error) {
	b, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func GetValue(ptr *string) string {
	if ptr == nil {
		return ""
	}

	return *ptr
}

func LoadYAML(filename string, config interface{}) (err error) {
	file, err := loadFile(filename)
	if err != nil {
		return
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return
	}

	return
}

func GenerateTags(targetName string) []types.Tag {
	return []types.Tag{
		{
			Key:   aws.String("managed-by"),
			Value: aws.String("cockpit-deploy"),
		},
		{
			Key:   aws.String("cockpit-deploy:target"),
			Value: aws.String(targetName),
		},
		{
			Key:   aws.String("Name"),
			Value: aws.String(targetName),
		},
	}
}
