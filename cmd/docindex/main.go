package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docindex",
	Short: "Index documents and query them with an Azure-hosted LLM",
	Long: `docindex indexes documents into Milvus using an Azure-hosted OpenAI
deployment for embeddings and completions.

Provider credentials come from config.yaml or from the environment:
AZURE_OPENAI_KEY, AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_DEPLOYMENT
(or OPENAI_API_KEY for the public API). The extract command additionally
needs LLAMA_CLOUD_API_KEY for the cloud parse service.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
